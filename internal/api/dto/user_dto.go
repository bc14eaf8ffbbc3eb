package dto

import (
	"time"

	"github.com/spec-kit/identity-service/internal/domain"
)

// CreateUserRequest payload for the administrative create path.
type CreateUserRequest struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	RoleCodes []string `json:"role_codes"`
}

// UpdateUserRequest payload; omitted fields stay untouched.
type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Status *string `json:"status"`
}

// AssignRolesRequest payload replacing an account's role codes.
type AssignRolesRequest struct {
	RoleCodes []string `json:"role_codes"`
}

// UserResponse is the wire representation of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	RoleCodes []string  `json:"role_codes"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse maps a user onto the wire shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Status:    string(user.Status),
		RoleCodes: user.RoleCodes,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// UserListResponse wraps a page of accounts.
type UserListResponse struct {
	Users   []UserResponse `json:"users"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

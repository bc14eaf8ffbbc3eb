package dto

import (
	"time"

	"github.com/spec-kit/identity-service/internal/domain"
)

// CreateRoleRequest payload for new roles.
type CreateRoleRequest struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// UpdateRoleRequest payload; omitted fields stay untouched.
type UpdateRoleRequest struct {
	Name        *string   `json:"name"`
	Permissions *[]string `json:"permissions"`
}

// RoleResponse is the wire representation of a role.
type RoleResponse struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRoleResponse maps a role onto the wire shape.
func NewRoleResponse(role *domain.Role) RoleResponse {
	return RoleResponse{
		Code:        role.Code,
		Name:        role.Name,
		Permissions: role.Permissions,
		Active:      role.Active,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

package domain

import "time"

// UserStatus represents lifecycle states for a user account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for managed accounts.
type User struct {
	ID           string     `bson:"_id,omitempty"`
	Name         string     `bson:"name"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password_hash"`
	Status       UserStatus `bson:"status"`
	RoleCodes    []string   `bson:"role_codes"`
	AvatarKey    string     `bson:"avatar_key,omitempty"`
	AvatarURL    string     `bson:"avatar_url,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

package domain

import (
	"regexp"
	"strings"
	"time"
)

// Role is a named, revocable bundle of permission strings. Codes are uppercase
// [A-Z_]+ and unique; deactivating a role removes every permission it grants
// on the next check, without touching issued tokens.
type Role struct {
	ID          string    `bson:"_id,omitempty"`
	Code        string    `bson:"code"`
	Name        string    `bson:"name"`
	Permissions []string  `bson:"permissions"`
	Active      bool      `bson:"active"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// Permission catalog gating the HTTP surface.
const (
	PermUserReadSelf   = "USER_READ_SELF"
	PermUserUpdateSelf = "USER_UPDATE_SELF"
	PermUserRead       = "USER_READ"
	PermUserCreate     = "USER_CREATE"
	PermUserUpdate     = "USER_UPDATE"
	PermUserDelete     = "USER_DELETE"
	PermUserAssignRole = "USER_ASSIGN_ROLE"
	PermRoleRead       = "ROLE_READ"
	PermRoleCreate     = "ROLE_CREATE"
	PermRoleUpdate     = "ROLE_UPDATE"
	PermRoleDelete     = "ROLE_DELETE"
)

// AllPermissions lists the full catalog, used when seeding the admin role.
func AllPermissions() []string {
	return []string{
		PermUserReadSelf,
		PermUserUpdateSelf,
		PermUserRead,
		PermUserCreate,
		PermUserUpdate,
		PermUserDelete,
		PermUserAssignRole,
		PermRoleRead,
		PermRoleCreate,
		PermRoleUpdate,
		PermRoleDelete,
	}
}

var roleCodePattern = regexp.MustCompile(`^[A-Z_]+$`)

// NormalizeRoleCode uppercases a role code candidate.
func NormalizeRoleCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidRoleCode reports whether the (already normalized) code matches [A-Z_]+.
func ValidRoleCode(code string) bool {
	return roleCodePattern.MatchString(code)
}

// NormalizePermissions uppercases and deduplicates a permission list,
// preserving first-seen order.
func NormalizePermissions(perms []string) []string {
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

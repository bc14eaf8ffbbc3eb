package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventUserLoggedIn    EventType = "user_logged_in"
	EventUserDeleted     EventType = "user_deleted"
	EventRolesAssigned   EventType = "roles_assigned"
	EventRoleDeactivated EventType = "role_deactivated"
	EventAvatarUpdated   EventType = "avatar_updated"
)

// Event represents a domain event emitted by services. SubjectID is the user
// or role the event is about; ActorID is who caused it, when known.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email     string   `json:"email"`
	RoleCodes []string `json:"role_codes"`
}

// UserLoggedInPayload payload.
type UserLoggedInPayload struct {
	Email string `json:"email"`
}

// RolesAssignedPayload payload.
type RolesAssignedPayload struct {
	RoleCodes []string `json:"role_codes"`
}

// RoleDeactivatedPayload payload.
type RoleDeactivatedPayload struct {
	Code string `json:"code"`
}

// AvatarUpdatedPayload payload.
type AvatarUpdatedPayload struct {
	ObjectKey string `json:"object_key"`
}

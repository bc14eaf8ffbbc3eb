package domain

import "time"

// AuditEntry is a persisted record of a security-relevant event.
type AuditEntry struct {
	ID        string         `bson:"_id,omitempty"`
	EventID   string         `bson:"event_id"`
	EventType string         `bson:"event_type"`
	ActorID   string         `bson:"actor_id,omitempty"`
	SubjectID string         `bson:"subject_id"`
	Detail    map[string]any `bson:"detail,omitempty"`
	CreatedAt time.Time      `bson:"created_at"`
}

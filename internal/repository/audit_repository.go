package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/persistence"
)

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	collection *mongo.Collection
}

// NewAuditRepository returns a document-store backed implementation.
func NewAuditRepository(store *persistence.Mongo) AuditRepository {
	return &auditRepository{collection: store.Database.Collection("audit_entries")}
}

func (r *auditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return mapMongoError(err)
	}
	return nil
}

func (r *auditRepository) ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.AuditEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"subject_id": subjectID}, opts)
	if err != nil {
		return nil, mapMongoError(err)
	}
	defer cursor.Close(ctx)

	var entries []domain.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, mapMongoError(err)
	}
	return entries, nil
}

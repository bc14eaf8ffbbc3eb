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
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

// RoleRepository defines persistence access for roles. FindActiveByCodes is
// the lookup the permission resolver depends on.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, code string) error
	GetByCode(ctx context.Context, code string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	SetActive(ctx context.Context, code string, active bool) error
	FindActiveByCodes(ctx context.Context, codes []string) ([]domain.Role, error)
}

type roleRepository struct {
	collection *mongo.Collection
}

// NewRoleRepository returns a document-store backed implementation.
func NewRoleRepository(store *persistence.Mongo) RoleRepository {
	return &roleRepository{collection: store.Database.Collection("roles")}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	now := time.Now().UTC()
	if role.ID == "" {
		role.ID = uuid.NewString()
	}
	role.CreatedAt = now
	role.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, role); err != nil {
		return mapMongoError(err)
	}
	return nil
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	role.UpdatedAt = time.Now().UTC()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"code": role.Code}, role)
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *roleRepository) Delete(ctx context.Context, code string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"code": code})
	if err != nil {
		return mapMongoError(err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *roleRepository) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	var role domain.Role
	if err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&role); err != nil {
		return nil, mapMongoError(err)
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, mapMongoError(err)
	}
	defer cursor.Close(ctx)

	var roles []domain.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, mapMongoError(err)
	}
	return roles, nil
}

func (r *roleRepository) SetActive(ctx context.Context, code string, active bool) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{"active": active, "updated_at": time.Now().UTC()}})
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *roleRepository) FindActiveByCodes(ctx context.Context, codes []string) ([]domain.Role, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{
		"code":   bson.M{"$in": codes},
		"active": true,
	})
	if err != nil {
		return nil, mapMongoError(err)
	}
	defer cursor.Close(ctx)

	var roles []domain.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, mapMongoError(err)
	}
	return roles, nil
}

// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/biolink-labs/biolink-api/internal/core"
)

const collectionName = "users"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByAuthID(ctx context.Context, authID string) (*User, error)
	Update(ctx context.Context, u *User) (*User, error)
	UpdatePaymentID(ctx context.Context, email, paymentID string) (*User, error)
	SetOnboardingCompleted(ctx context.Context, id, event string) (*User, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type repository struct {
	collection *mongo.Collection
}

func NewRepository(db *core.Mongo) Repository {
	return &repository{collection: db.Collection(collectionName)}
}

func EnsureIndexes(ctx context.Context, db *core.Mongo) error {
	_, err := db.Collection(collectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "authId", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	return nil
}

func (r *repository) Create(ctx context.Context, u *User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, u); err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *repository) GetByAuthID(
	ctx context.Context,
	authID string,
) (*User, error) {
	return r.findOne(ctx, bson.M{"authId": authID})
}

func (r *repository) findOne(
	ctx context.Context,
	filter bson.M,
) (*User, error) {
	var u User
	err := r.collection.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

func (r *repository) Update(ctx context.Context, u *User) (*User, error) {
	if u.ID.IsZero() {
		return nil, fmt.Errorf("update user: %w", core.ErrNotFound)
	}

	u.UpdatedAt = time.Now().UTC()

	var updated User
	err := r.collection.FindOneAndReplace(
		ctx,
		bson.M{"_id": u.ID},
		u,
		options.FindOneAndReplace().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return &updated, nil
}

func (r *repository) UpdatePaymentID(
	ctx context.Context,
	email string,
	paymentID string,
) (*User, error) {
	var updated User
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{
			"paymentId": paymentID,
			"updatedAt": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update payment id: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update payment id: %w", err)
	}

	return &updated, nil
}

func (r *repository) SetOnboardingCompleted(
	ctx context.Context,
	id string,
	event string,
) (*User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("set onboarding: %w", core.ErrNotFound)
	}

	now := time.Now().UTC()

	var updated User
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"onboardings." + event + ".completed":   true,
			"onboardings." + event + ".completedAt": now,
			"updatedAt":                             now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("set onboarding: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("set onboarding: %w", err)
	}

	return &updated, nil
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}

	return result.DeletedCount, nil
}

// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/biolink-labs/biolink-api/internal/core"
)

const (
	tokensCollection      = "refresh_tokens"
	credentialsCollection = "credentials"
)

type Repository interface {
	CreateCredential(ctx context.Context, cred *Credential) error
	CredentialByEmail(ctx context.Context, email string) (*Credential, error)
	UpdatePasswordHash(ctx context.Context, authID, hash string) error

	CreateToken(ctx context.Context, token *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	FindByID(ctx context.Context, id string) (*RefreshToken, error)
	MarkAsUsed(ctx context.Context, id, replacedByID string) error
	RevokeByID(ctx context.Context, id string) error
	RevokeByFamilyID(ctx context.Context, familyID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	GetActiveSessionsForUser(
		ctx context.Context,
		userID string,
	) ([]RefreshToken, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type repository struct {
	tokens      *mongo.Collection
	credentials *mongo.Collection
}

func NewRepository(db *core.Mongo) Repository {
	return &repository{
		tokens:      db.Collection(tokensCollection),
		credentials: db.Collection(credentialsCollection),
	}
}

func EnsureIndexes(ctx context.Context, db *core.Mongo) error {
	_, err := db.Collection(credentialsCollection).Indexes().CreateOne(ctx,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
	if err != nil {
		return fmt.Errorf("create credential indexes: %w", err)
	}

	_, err = db.Collection(tokensCollection).Indexes().CreateMany(ctx,
		[]mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "tokenHash", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "userId", Value: 1}},
			},
			{
				Keys:    bson.D{{Key: "expiresAt", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0),
			},
		})
	if err != nil {
		return fmt.Errorf("create token indexes: %w", err)
	}

	return nil
}

func (r *repository) CreateCredential(
	ctx context.Context,
	cred *Credential,
) error {
	now := time.Now().UTC()
	cred.CreatedAt = now
	cred.UpdatedAt = now

	if _, err := r.credentials.InsertOne(ctx, cred); err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create credential: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create credential: %w", err)
	}

	return nil
}

func (r *repository) CredentialByEmail(
	ctx context.Context,
	email string,
) (*Credential, error) {
	var cred Credential
	err := r.credentials.FindOne(ctx, bson.M{"email": email}).Decode(&cred)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get credential: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}

	return &cred, nil
}

func (r *repository) UpdatePasswordHash(
	ctx context.Context,
	authID string,
	hash string,
) error {
	result, err := r.credentials.UpdateOne(
		ctx,
		bson.M{"authId": authID},
		bson.M{"$set": bson.M{
			"passwordHash": hash,
			"updatedAt":    time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CreateToken(
	ctx context.Context,
	token *RefreshToken,
) error {
	token.CreatedAt = time.Now().UTC()

	if _, err := r.tokens.InsertOne(ctx, token); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}

	return nil
}

func (r *repository) FindByHash(
	ctx context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	return r.findOne(ctx, bson.M{"tokenHash": tokenHash})
}

func (r *repository) FindByID(
	ctx context.Context,
	id string,
) (*RefreshToken, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *repository) findOne(
	ctx context.Context,
	filter bson.M,
) (*RefreshToken, error) {
	var token RefreshToken
	err := r.tokens.FindOne(ctx, filter).Decode(&token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	return &token, nil
}

func (r *repository) MarkAsUsed(
	ctx context.Context,
	id string,
	replacedByID string,
) error {
	result, err := r.tokens.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"isUsed":       true,
			"usedAt":       time.Now().UTC(),
			"replacedById": replacedByID,
		},
	})
	if err != nil {
		return fmt.Errorf("mark token used: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("mark token used: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) RevokeByID(ctx context.Context, id string) error {
	result, err := r.tokens.UpdateOne(
		ctx,
		bson.M{"_id": id, "revokedAt": nil},
		bson.M{"$set": bson.M{"revokedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("revoke token: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) RevokeByFamilyID(
	ctx context.Context,
	familyID string,
) error {
	_, err := r.tokens.UpdateMany(
		ctx,
		bson.M{"familyId": familyID, "revokedAt": nil},
		bson.M{"$set": bson.M{"revokedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("revoke token family: %w", err)
	}

	return nil
}

func (r *repository) RevokeAllForUser(
	ctx context.Context,
	userID string,
) error {
	_, err := r.tokens.UpdateMany(
		ctx,
		bson.M{"userId": userID, "revokedAt": nil},
		bson.M{"$set": bson.M{"revokedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}

	return nil
}

func (r *repository) GetActiveSessionsForUser(
	ctx context.Context,
	userID string,
) ([]RefreshToken, error) {
	cursor, err := r.tokens.Find(ctx, bson.M{
		"userId":    userID,
		"isUsed":    false,
		"revokedAt": nil,
		"expiresAt": bson.M{"$gt": time.Now().UTC()},
	}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var tokens []RefreshToken
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return tokens, nil
}

// DeleteExpired is a safety net behind the TTL index.
func (r *repository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.tokens.DeleteMany(ctx, bson.M{
		"expiresAt": bson.M{"$lt": time.Now().UTC()},
	})
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	return result.DeletedCount, nil
}

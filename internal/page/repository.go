// AngelaMos | 2026
// repository.go

package page

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

const collectionName = "pages"

type Repository interface {
	Create(ctx context.Context, p *Page) error
	GetByID(ctx context.Context, id string) (*Page, error)
	GetByURL(ctx context.Context, url string) (*Page, error)
	ListByUser(ctx context.Context, userID string) ([]Page, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Update(ctx context.Context, p *Page) (*Page, error)
	Delete(ctx context.Context, id string) error
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
	IncrementViews(ctx context.Context, id string) error
}

type repository struct {
	collection *mongo.Collection
}

func NewRepository(db *core.Mongo) Repository {
	return &repository{collection: db.Collection(collectionName)}
}

// EnsureIndexes creates the unique url index. The application-layer url
// pre-check gives callers a friendly error; the index closes the race
// between two concurrent creates.
func EnsureIndexes(ctx context.Context, db *core.Mongo) error {
	_, err := db.Collection(collectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "url", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create page indexes: %w", err)
	}

	return nil
}

func (r *repository) Create(ctx context.Context, p *Page) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create page: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create page: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Page, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("get page: %w", core.ErrNotFound)
	}

	var p Page
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get page: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}

	return &p, nil
}

func (r *repository) GetByURL(ctx context.Context, url string) (*Page, error) {
	var p Page
	err := r.collection.FindOne(ctx, bson.M{"url": url}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get page by url: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get page by url: %w", err)
	}

	return &p, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Page, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	var pages []Page
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	return pages, nil
}

func (r *repository) CountByUser(
	ctx context.Context,
	userID string,
) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}

	return count, nil
}

// ExistsByURL is an exact, case-sensitive match.
func (r *repository) ExistsByURL(
	ctx context.Context,
	url string,
) (bool, error) {
	err := r.collection.FindOne(
		ctx,
		bson.M{"url": url},
		options.FindOne().SetProjection(bson.M{"_id": 1}),
	).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check page url: %w", err)
	}

	return true, nil
}

// Update replaces the whole document. Concurrent writers are last-write-wins
// at the storage layer.
func (r *repository) Update(ctx context.Context, p *Page) (*Page, error) {
	if p.ID.IsZero() {
		return nil, fmt.Errorf("update page: %w", core.ErrNotFound)
	}

	p.UpdatedAt = time.Now().UTC()

	var updated Page
	err := r.collection.FindOneAndReplace(
		ctx,
		bson.M{"_id": p.ID},
		p,
		options.FindOneAndReplace().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update page: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}

	return &updated, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("delete page: %w", core.ErrNotFound)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("delete page: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteAllByUser(
	ctx context.Context,
	userID string,
) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("delete user pages: %w", err)
	}

	return result.DeletedCount, nil
}

// IncrementViews bumps the view counter with an atomic in-place increment,
// independent of any full-document update in flight.
func (r *repository) IncrementViews(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("increment views: %w", core.ErrNotFound)
	}

	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{
		"$inc": bson.M{"views": 1},
	})
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("increment views: %w", core.ErrNotFound)
	}

	return nil
}

package domain

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cartCollection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// CartRepository persists and retrieves ephemeral cart items.
type CartRepository struct {
	collection cartCollection
}

// NewCartRepository constructs a CartRepository.
func NewCartRepository(collection cartCollection) *CartRepository {
	return &CartRepository{collection: collection}
}

// ListByEmail returns the cart items owned by the given email.
func (r *CartRepository) ListByEmail(ctx context.Context, email string) ([]CartItem, error) {
	if r == nil || r.collection == nil {
		return nil, errors.New("cart repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	cursor, err := r.collection.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	items := make([]CartItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}

	return items, nil
}

// Insert stores a cart item and returns its id.
func (r *CartRepository) Insert(ctx context.Context, item CartItem) (primitive.ObjectID, error) {
	if r == nil || r.collection == nil {
		return primitive.NilObjectID, errors.New("cart repository is not initialized")
	}
	if ctx == nil {
		return primitive.NilObjectID, errors.New("context is required")
	}
	if item.Email == "" {
		return primitive.NilObjectID, errors.New("cart item email is required")
	}

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert cart item: %w", err)
	}

	insertedID, _ := result.InsertedID.(primitive.ObjectID)
	return insertedID, nil
}

// Delete removes one cart item by id and returns the deleted count.
func (r *CartRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if r == nil || r.collection == nil {
		return 0, errors.New("cart repository is not initialized")
	}
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete cart item: %w", err)
	}

	return result.DeletedCount, nil
}

// DeleteMany removes the identified cart items in bulk, typically after their
// enclosing payment has been recorded. It returns the deleted count.
func (r *CartRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if r == nil || r.collection == nil {
		return 0, errors.New("cart repository is not initialized")
	}
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("delete cart items: %w", err)
	}

	return result.DeletedCount, nil
}

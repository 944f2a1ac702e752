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

type reviewCollection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// ReviewRepository persists and retrieves customer reviews.
type ReviewRepository struct {
	collection reviewCollection
}

// NewReviewRepository constructs a ReviewRepository.
func NewReviewRepository(collection reviewCollection) *ReviewRepository {
	return &ReviewRepository{collection: collection}
}

// List returns every review.
func (r *ReviewRepository) List(ctx context.Context) ([]Review, error) {
	if r == nil || r.collection == nil {
		return nil, errors.New("review repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	reviews := make([]Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	return reviews, nil
}

// Insert stores a review and returns its id.
func (r *ReviewRepository) Insert(ctx context.Context, review Review) (primitive.ObjectID, error) {
	if r == nil || r.collection == nil {
		return primitive.NilObjectID, errors.New("review repository is not initialized")
	}
	if ctx == nil {
		return primitive.NilObjectID, errors.New("context is required")
	}

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert review: %w", err)
	}

	insertedID, _ := result.InsertedID.(primitive.ObjectID)
	return insertedID, nil
}

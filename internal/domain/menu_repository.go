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

type menuCollection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// MenuRepository persists and retrieves menu items.
type MenuRepository struct {
	collection menuCollection
}

// NewMenuRepository constructs a MenuRepository.
func NewMenuRepository(collection menuCollection) *MenuRepository {
	return &MenuRepository{collection: collection}
}

// List returns the full menu.
func (r *MenuRepository) List(ctx context.Context) ([]MenuItem, error) {
	if r == nil || r.collection == nil {
		return nil, errors.New("menu repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}

	items := make([]MenuItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode menu items: %w", err)
	}

	return items, nil
}

// Get fetches one menu item by id, returning ErrNotFound when absent.
func (r *MenuRepository) Get(ctx context.Context, id primitive.ObjectID) (MenuItem, error) {
	if r == nil || r.collection == nil {
		return MenuItem{}, errors.New("menu repository is not initialized")
	}
	if ctx == nil {
		return MenuItem{}, errors.New("context is required")
	}

	result := r.collection.FindOne(ctx, bson.M{"_id": id})
	if result == nil {
		return MenuItem{}, errors.New("find menu item returned no result")
	}
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return MenuItem{}, ErrNotFound
		}
		return MenuItem{}, fmt.Errorf("find menu item: %w", err)
	}

	var item MenuItem
	if err := result.Decode(&item); err != nil {
		return MenuItem{}, fmt.Errorf("decode menu item: %w", err)
	}

	return item, nil
}

// Insert stores a new menu item and returns its id.
func (r *MenuRepository) Insert(ctx context.Context, item MenuItem) (primitive.ObjectID, error) {
	if r == nil || r.collection == nil {
		return primitive.NilObjectID, errors.New("menu repository is not initialized")
	}
	if ctx == nil {
		return primitive.NilObjectID, errors.New("context is required")
	}
	if item.Name == "" {
		return primitive.NilObjectID, errors.New("menu item name is required")
	}

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert menu item: %w", err)
	}

	insertedID, _ := result.InsertedID.(primitive.ObjectID)
	return insertedID, nil
}

// Update replaces the mutable fields of the identified menu item and returns
// the number of modified documents.
func (r *MenuRepository) Update(ctx context.Context, id primitive.ObjectID, item MenuItem) (int64, error) {
	if r == nil || r.collection == nil {
		return 0, errors.New("menu repository is not initialized")
	}
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"name":     item.Name,
			"category": item.Category,
			"price":    item.Price,
			"recipe":   item.Recipe,
			"image":    item.Image,
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("update menu item: %w", err)
	}

	return result.ModifiedCount, nil
}

// Delete removes the identified menu item and returns the deleted count.
func (r *MenuRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if r == nil || r.collection == nil {
		return 0, errors.New("menu repository is not initialized")
	}
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete menu item: %w", err)
	}

	return result.DeletedCount, nil
}

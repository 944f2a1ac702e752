package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userCollection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// UserRepository persists and retrieves users keyed by email.
type UserRepository struct {
	collection userCollection
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(collection userCollection) *UserRepository {
	return &UserRepository{collection: collection}
}

// Ensure upserts the user record for the given email, defaulting the role to
// RoleUser on first sign-in. It reports whether a new record was created and
// the inserted id when one was.
func (r *UserRepository) Ensure(ctx context.Context, email, name string) (bool, primitive.ObjectID, error) {
	if r == nil || r.collection == nil {
		return false, primitive.NilObjectID, errors.New("user repository is not initialized")
	}
	if ctx == nil {
		return false, primitive.NilObjectID, errors.New("context is required")
	}
	if email == "" {
		return false, primitive.NilObjectID, errors.New("email is required")
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$set": bson.M{
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"email":      email,
			"name":       name,
			"role":       RoleUser,
			"created_at": now,
		},
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"email": email},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, primitive.NilObjectID, fmt.Errorf("ensure user: %w", err)
	}

	if result == nil || result.UpsertedCount == 0 {
		return false, primitive.NilObjectID, nil
	}

	insertedID, _ := result.UpsertedID.(primitive.ObjectID)
	return true, insertedID, nil
}

// GetByEmail fetches a user by email, returning ErrNotFound when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	if r == nil || r.collection == nil {
		return User{}, errors.New("user repository is not initialized")
	}
	if ctx == nil {
		return User{}, errors.New("context is required")
	}
	if email == "" {
		return User{}, errors.New("email is required")
	}

	result := r.collection.FindOne(ctx, bson.M{"email": email})
	if result == nil {
		return User{}, errors.New("find user returned no result")
	}
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}

	var user User
	if err := result.Decode(&user); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}

	return user, nil
}

// List returns every user record.
func (r *UserRepository) List(ctx context.Context) ([]User, error) {
	if r == nil || r.collection == nil {
		return nil, errors.New("user repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	return users, nil
}

// PromoteAdmin sets the role of the identified user to RoleAdmin and returns
// the number of modified documents.
func (r *UserRepository) PromoteAdmin(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if r == nil || r.collection == nil {
		return 0, errors.New("user repository is not initialized")
	}
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"role":       RoleAdmin,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("promote user: %w", err)
	}

	return result.ModifiedCount, nil
}

// Delete removes the identified user and returns the deleted count.
func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if r == nil || r.collection == nil {
		return 0, errors.New("user repository is not initialized")
	}
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}

	return result.DeletedCount, nil
}

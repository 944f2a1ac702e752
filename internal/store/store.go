// Package store encapsulates MongoDB client management, collection helpers, and
// the aggregation pipelines behind the admin statistics endpoints.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"bistro_backend/internal/config"
)

// Collection names used across the server.
const (
	CollectionMenu     = "menu"
	CollectionUsers    = "users"
	CollectionReviews  = "reviews"
	CollectionCarts    = "carts"
	CollectionPayments = "payments"
)

// mongoClient captures the subset of mongo.Client behavior we rely on to allow
// lightweight stubbing in tests without a live Mongo deployment.
type mongoClient interface {
	Ping(context.Context, *readpref.ReadPref) error
	Database(string, ...*options.DatabaseOptions) *mongo.Database
	Disconnect(context.Context) error
}

// connectMongo is overridable for tests.
var connectMongo = func(ctx context.Context, opts *options.ClientOptions) (mongoClient, error) {
	return mongo.Connect(ctx, opts)
}

// createIndexes is overridable for tests.
var createIndexes = func(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) ([]string, error) {
	return coll.Indexes().CreateMany(ctx, models)
}

// Manager owns a MongoDB client and the configured database handle.
type Manager struct {
	client mongoClient
	db     *mongo.Database
}

// NewManager initializes the Mongo client using the supplied configuration and
// verifies connectivity with a ping.
func NewManager(ctx context.Context, cfg config.Config) (*Manager, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	client, err := connectMongo(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Manager{
		client: client,
		db:     client.Database(cfg.MongoDB),
	}, nil
}

// Database returns the configured database handle.
func (m *Manager) Database() *mongo.Database {
	return m.db
}

// Ping verifies connectivity against the primary.
func (m *Manager) Ping(ctx context.Context) error {
	if m == nil || m.client == nil {
		return errors.New("store manager is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	return m.client.Ping(ctx, readpref.Primary())
}

// Collection returns a collection handle for the given name.
func (m *Manager) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// Menu returns the menu collection handle.
func (m *Manager) Menu() *mongo.Collection {
	return m.Collection(CollectionMenu)
}

// Users returns the users collection handle.
func (m *Manager) Users() *mongo.Collection {
	return m.Collection(CollectionUsers)
}

// Reviews returns the reviews collection handle.
func (m *Manager) Reviews() *mongo.Collection {
	return m.Collection(CollectionReviews)
}

// Carts returns the carts collection handle.
func (m *Manager) Carts() *mongo.Collection {
	return m.Collection(CollectionCarts)
}

// Payments returns the payments collection handle.
func (m *Manager) Payments() *mongo.Collection {
	return m.Collection(CollectionPayments)
}

// EnsureBaseIndexes creates the foundational indexes for the users and carts
// collections. Collections are created implicitly if they do not already exist.
func (m *Manager) EnsureBaseIndexes(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if m == nil || m.db == nil {
		return errors.New("store manager is not initialized")
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("email_unique").
				SetUnique(true),
		},
	}

	if _, err := createIndexes(ctx, m.Users(), userIndexes); err != nil {
		return fmt.Errorf("create users indexes: %w", err)
	}

	cartIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("cart_email"),
		},
	}

	if _, err := createIndexes(ctx, m.Carts(), cartIndexes); err != nil {
		return fmt.Errorf("create carts indexes: %w", err)
	}

	paymentIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("payment_email"),
		},
	}

	if _, err := createIndexes(ctx, m.Payments(), paymentIndexes); err != nil {
		return fmt.Errorf("create payments indexes: %w", err)
	}

	return nil
}

// Close disconnects the Mongo client.
func (m *Manager) Close(ctx context.Context) error {
	if m == nil || m.client == nil {
		return nil
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	return m.client.Disconnect(ctx)
}

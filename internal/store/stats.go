package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bistro_backend/internal/domain"
)

type countCollection interface {
	EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error)
}

type aggregateCollection interface {
	EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error)
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

// StatsProvider computes the numbers backing the admin dashboard: collection
// counts, total revenue, and per-category order statistics.
type StatsProvider struct {
	users    countCollection
	menu     countCollection
	payments aggregateCollection
}

// NewStatsProvider constructs a StatsProvider backed by the users, menu, and
// payments collections.
func NewStatsProvider(users, menu countCollection, payments aggregateCollection) *StatsProvider {
	return &StatsProvider{
		users:    users,
		menu:     menu,
		payments: payments,
	}
}

// CountUsers returns the estimated number of user records.
func (p *StatsProvider) CountUsers(ctx context.Context) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if p == nil || p.users == nil {
		return 0, errors.New("stats provider is not initialized")
	}

	count, err := p.users.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return count, nil
}

// CountMenuItems returns the estimated number of menu items.
func (p *StatsProvider) CountMenuItems(ctx context.Context) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if p == nil || p.menu == nil {
		return 0, errors.New("stats provider is not initialized")
	}

	count, err := p.menu.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count menu items: %w", err)
	}

	return count, nil
}

// CountOrders returns the estimated number of recorded payments.
func (p *StatsProvider) CountOrders(ctx context.Context) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if p == nil || p.payments == nil {
		return 0, errors.New("stats provider is not initialized")
	}

	count, err := p.payments.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}

	return count, nil
}

// TotalRevenue sums the price of every recorded payment inside the database.
func (p *StatsProvider) TotalRevenue(ctx context.Context) (float64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}
	if p == nil || p.payments == nil {
		return 0, errors.New("stats provider is not initialized")
	}

	groupStage := bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$price"}}},
	}}}

	cursor, err := p.payments.Aggregate(ctx, mongo.Pipeline{groupStage})
	if err != nil {
		return 0, fmt.Errorf("aggregate revenue: %w", err)
	}

	var rows []struct {
		TotalRevenue float64 `bson:"totalRevenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode revenue: %w", err)
	}

	if len(rows) == 0 {
		return 0, nil
	}

	return rows[0].TotalRevenue, nil
}

// OrderStats runs the order-statistics pipeline and returns one row per menu
// category, sorted lexicographically by category so repeated calls over
// unchanged data yield identical output.
//
// A stored menu-item id that is not a valid ObjectID hex string fails the
// $toObjectId cast and aborts the whole pipeline; callers surface that as a
// generic failure rather than returning partial rows.
func (p *StatsProvider) OrderStats(ctx context.Context) ([]domain.CategoryStat, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if p == nil || p.payments == nil {
		return nil, errors.New("stats provider is not initialized")
	}

	cursor, err := p.payments.Aggregate(ctx, OrderStatsPipeline())
	if err != nil {
		return nil, fmt.Errorf("aggregate order stats: %w", err)
	}

	stats := make([]domain.CategoryStat, 0)
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode order stats: %w", err)
	}

	return stats, nil
}

// OrderStatsPipeline builds the fixed aggregation over the payments collection.
// Stage order matters: each payment's purchased menu-item ids are flattened to
// one row per id, cast from their stored string form to ObjectID, joined
// against the menu collection's primary key, and grouped by the joined item's
// category. Ids with no matching menu item produce an empty join and are
// dropped by the second unwind.
func OrderStatsPipeline() mongo.Pipeline {
	unwindIDs := bson.D{{Key: "$unwind", Value: "$menuItemIds"}}
	castID := bson.D{{Key: "$set", Value: bson.D{
		{Key: "menuObjectId", Value: bson.D{{Key: "$toObjectId", Value: "$menuItemIds"}}},
	}}}
	lookupMenu := bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: CollectionMenu},
		{Key: "localField", Value: "menuObjectId"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "menuItems"},
	}}}
	unwindMenu := bson.D{{Key: "$unwind", Value: "$menuItems"}}
	groupByCategory := bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: "$menuItems.category"},
		{Key: "quantity", Value: bson.D{{Key: "$sum", Value: 1}}},
		{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$menuItems.price"}}},
	}}}
	reshape := bson.D{{Key: "$project", Value: bson.D{
		{Key: "_id", Value: 0},
		{Key: "category", Value: "$_id"},
		{Key: "quantity", Value: "$quantity"},
		{Key: "revenue", Value: "$revenue"},
	}}}
	sortByCategory := bson.D{{Key: "$sort", Value: bson.D{{Key: "category", Value: 1}}}}

	return mongo.Pipeline{
		unwindIDs,
		castID,
		lookupMenu,
		unwindMenu,
		groupByCategory,
		reshape,
		sortByCategory,
	}
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment records a completed checkout. It is immutable once inserted.
//
// MenuItemIDs holds the purchased menu-item identifiers as plain strings even
// though the menu collection is keyed by ObjectID; the order-statistics
// pipeline bridges the mismatch with an explicit $toObjectId cast.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email         string             `bson:"email" json:"email"`
	Price         float64            `bson:"price" json:"price"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	Date          time.Time          `bson:"date" json:"date"`
	CartIDs       []string           `bson:"cartIds" json:"cartIds"`
	MenuItemIDs   []string           `bson:"menuItemIds" json:"menuItemIds"`
	Status        string             `bson:"status,omitempty" json:"status,omitempty"`
}

// CategoryStat is one row of the order-statistics aggregation: the count of
// sold line items and summed revenue for a single menu category.
type CategoryStat struct {
	Category string  `bson:"category" json:"category"`
	Quantity int64   `bson:"quantity" json:"quantity"`
	Revenue  float64 `bson:"revenue" json:"revenue"`
}

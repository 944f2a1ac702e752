package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// CartItem is an ephemeral menu-item selection owned by a customer email.
// Cart items are bulk-deleted once the enclosing payment is recorded.
type CartItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	MenuItemID string             `bson:"menuItemId" json:"menuItemId"`
	Email      string             `bson:"email" json:"email"`
	Name       string             `bson:"name,omitempty" json:"name,omitempty"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
	Price      float64            `bson:"price" json:"price"`
}

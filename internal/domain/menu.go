package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// MenuItem is a dish on the bistro's menu. Category is a free-text grouping
// key; the order-statistics pipeline groups sold items by it.
type MenuItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Category string             `bson:"category" json:"category"`
	Price    float64            `bson:"price" json:"price"`
	Recipe   string             `bson:"recipe,omitempty" json:"recipe,omitempty"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
}

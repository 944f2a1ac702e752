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

type paymentCollection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// PaymentRepository persists and retrieves payment records. Payments are
// append-only; nothing in the service mutates or deletes them.
type PaymentRepository struct {
	collection paymentCollection
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(collection paymentCollection) *PaymentRepository {
	return &PaymentRepository{collection: collection}
}

// ListByEmail returns the payment history for the given email.
func (r *PaymentRepository) ListByEmail(ctx context.Context, email string) ([]Payment, error) {
	if r == nil || r.collection == nil {
		return nil, errors.New("payment repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if email == "" {
		return nil, errors.New("email is required")
	}

	cursor, err := r.collection.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	payments := make([]Payment, 0)
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}

	return payments, nil
}

// Insert records a payment, stamping the date when unset, and returns its id.
func (r *PaymentRepository) Insert(ctx context.Context, payment Payment) (primitive.ObjectID, error) {
	if r == nil || r.collection == nil {
		return primitive.NilObjectID, errors.New("payment repository is not initialized")
	}
	if ctx == nil {
		return primitive.NilObjectID, errors.New("context is required")
	}
	if payment.Email == "" {
		return primitive.NilObjectID, errors.New("payment email is required")
	}
	if payment.Date.IsZero() {
		payment.Date = time.Now().UTC().Truncate(time.Millisecond)
	}

	result, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert payment: %w", err)
	}

	insertedID, _ := result.InsertedID.(primitive.ObjectID)
	return insertedID, nil
}

// Package payments wraps the Stripe SDK for payment-intent creation.
package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const currency = string(stripe.CurrencyUSD)

// intentBackend matches the subset of the Stripe payment-intent client we use,
// allowing handler tests to stub intent creation.
type intentBackend interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeClient creates card payment intents against the Stripe API.
type StripeClient struct {
	intents intentBackend
}

// NewStripeClient constructs a StripeClient for the given secret API key.
func NewStripeClient(secretKey string) (*StripeClient, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, errors.New("stripe secret key is required")
	}

	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeClient{intents: api.PaymentIntents}, nil
}

// CreateIntent creates a card payment intent for the given price in major
// currency units and returns the client secret the frontend confirms with.
func (c *StripeClient) CreateIntent(ctx context.Context, price float64) (string, error) {
	if c == nil || c.intents == nil {
		return "", errors.New("stripe client is not initialized")
	}
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if price <= 0 {
		return "", errors.New("price must be positive")
	}

	// Stripe takes integer minor units (cents).
	amount := int64(math.Round(price * 100))

	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	intent, err := c.intents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}

	return intent.ClientSecret, nil
}

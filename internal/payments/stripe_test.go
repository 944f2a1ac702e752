package payments

import (
	"context"
	"errors"
	"testing"

	stripe "github.com/stripe/stripe-go/v76"
)

func TestCreateIntentConvertsPriceToMinorUnits(t *testing.T) {
	backend := &stubIntentBackend{
		intent: &stripe.PaymentIntent{ClientSecret: "pi_secret_123"},
	}
	client := &StripeClient{intents: backend}

	secret, err := client.CreateIntent(context.Background(), 7.5)
	if err != nil {
		t.Fatalf("expected intent creation to succeed, got error: %v", err)
	}

	if secret != "pi_secret_123" {
		t.Fatalf("expected client secret pi_secret_123, got %s", secret)
	}

	if backend.lastParams == nil || backend.lastParams.Amount == nil {
		t.Fatalf("expected amount to be set")
	}
	if *backend.lastParams.Amount != 750 {
		t.Fatalf("expected amount 750 cents, got %d", *backend.lastParams.Amount)
	}
	if backend.lastParams.Currency == nil || *backend.lastParams.Currency != "usd" {
		t.Fatalf("expected usd currency, got %v", backend.lastParams.Currency)
	}
}

func TestCreateIntentRoundsFractionalCents(t *testing.T) {
	backend := &stubIntentBackend{intent: &stripe.PaymentIntent{ClientSecret: "s"}}
	client := &StripeClient{intents: backend}

	if _, err := client.CreateIntent(context.Background(), 10.555); err != nil {
		t.Fatalf("expected intent creation to succeed, got error: %v", err)
	}

	if *backend.lastParams.Amount != 1056 {
		t.Fatalf("expected rounded amount 1056, got %d", *backend.lastParams.Amount)
	}
}

func TestCreateIntentRejectsNonPositivePrice(t *testing.T) {
	client := &StripeClient{intents: &stubIntentBackend{}}

	if _, err := client.CreateIntent(context.Background(), 0); err == nil {
		t.Fatalf("expected error for zero price")
	}
	if _, err := client.CreateIntent(context.Background(), -1); err == nil {
		t.Fatalf("expected error for negative price")
	}
}

func TestCreateIntentPropagatesBackendErrors(t *testing.T) {
	expectedErr := errors.New("stripe unavailable")
	client := &StripeClient{intents: &stubIntentBackend{err: expectedErr}}

	if _, err := client.CreateIntent(context.Background(), 5); !errors.Is(err, expectedErr) {
		t.Fatalf("expected backend error to propagate, got %v", err)
	}
}

func TestNewStripeClientRequiresKey(t *testing.T) {
	if _, err := NewStripeClient(""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

type stubIntentBackend struct {
	intent     *stripe.PaymentIntent
	err        error
	lastParams *stripe.PaymentIntentParams
}

func (s *stubIntentBackend) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	return s.intent, nil
}

package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// IntentCreator mints payment intents and returns their client secret.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// StripeClient creates payment intents through the Stripe API.
type StripeClient struct {
	api *client.API
}

// NewStripeClient builds a client bound to secretKey.
func NewStripeClient(secretKey string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api}
}

// CreateIntent creates a payment intent for amount in currency.
func (s *StripeClient) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}

// FakeIntent is an in-memory IntentCreator.
type FakeIntent struct {
	mu    sync.Mutex
	Calls []FakeCall
	Err   error
}

// FakeCall records one CreateIntent invocation.
type FakeCall struct {
	Amount   int64
	Currency string
}

// CreateIntent records the call and returns a deterministic secret.
func (f *FakeIntent) CreateIntent(_ context.Context, amount int64, currency string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	f.Calls = append(f.Calls, FakeCall{Amount: amount, Currency: currency})
	return fmt.Sprintf("pi_fake_%d_secret_%s", len(f.Calls), currency), nil
}

package relay

import (
	"context"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// PaymentAPI is the slice of the Stripe API the relay depends on.
type PaymentAPI interface {
	Charge(ctx context.Context, id string) (*stripe.Charge, error)
	PaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
	UpdatePaymentIntent(ctx context.Context, id, description string, metadata map[string]string) (*stripe.PaymentIntent, error)
}

// StripeAPI implements PaymentAPI using the official Stripe client.
type StripeAPI struct {
	api *client.API
}

// NewStripeAPI constructs a StripeAPI bound to the given secret key.
func NewStripeAPI(secretKey string) *StripeAPI {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeAPI{api: api}
}

// Charge retrieves a charge by id.
func (s *StripeAPI) Charge(ctx context.Context, id string) (*stripe.Charge, error) {
	return s.api.Charges.Get(id, &stripe.ChargeParams{Params: stripe.Params{Context: ctx}})
}

// PaymentIntent retrieves a payment intent with its latest charge expanded.
func (s *StripeAPI) PaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{Params: stripe.Params{Context: ctx}}
	params.AddExpand("latest_charge")
	return s.api.PaymentIntents.Get(id, params)
}

// UpdatePaymentIntent writes the description and metadata onto the payment intent.
func (s *StripeAPI) UpdatePaymentIntent(ctx context.Context, id, description string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params:      stripe.Params{Context: ctx},
		Description: stripe.String(description),
	}
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}
	return s.api.PaymentIntents.Update(id, params)
}

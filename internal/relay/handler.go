package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/noah-isme/stripe-relay/internal/common"
	"github.com/noah-isme/stripe-relay/internal/orders"
)

// maxBodyBytes caps webhook payload reads, per Stripe's guidance.
const maxBodyBytes = 64 << 10

// OrderReader fetches orders from the order service.
type OrderReader interface {
	Get(ctx context.Context, orderID string) (orders.Order, error)
}

// Webhook links succeeded Stripe payments to their orders and writes an
// order summary back onto the payment intent.
type Webhook struct {
	SigningSecret string
	Stripe        PaymentAPI
	Orders        OrderReader
	Logger        zerolog.Logger
}

// Handle processes a signed Stripe event. Signature failures are the only
// non-200 outcome; everything after verification is acknowledged so the
// processor does not redeliver.
func (h Webhook) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Webhook Error: unable to read payload", http.StatusBadRequest)
		return
	}
	// Verification must run against the untouched bytes.
	event, err := webhook.ConstructEventWithOptions(body, r.Header.Get("Stripe-Signature"), h.SigningSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
		Tolerance:                webhook.DefaultTolerance,
	})
	if err != nil {
		http.Error(w, "Webhook Error: "+err.Error(), http.StatusBadRequest)
		return
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded, stripe.EventTypeChargeSucceeded:
	default:
		common.JSON(w, http.StatusOK, map[string]any{"received": true})
		return
	}

	if err := h.process(r.Context(), event); err != nil {
		h.Logger.Error().Err(err).
			Str("event_id", event.ID).
			Str("event_type", string(event.Type)).
			Msg("process webhook")
		common.JSON(w, http.StatusOK, map[string]any{"received": true, "error": true})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"received": true})
}

// process runs the join pipeline. A nil return with no update performed is
// a deliberate no-op; only upstream API failures surface as errors.
func (h Webhook) process(ctx context.Context, event stripe.Event) error {
	paymentIntentID, chargeID, err := eventIdentifiers(event)
	if err != nil {
		return err
	}

	charge, err := h.resolveCharge(ctx, paymentIntentID, chargeID)
	if err != nil {
		return err
	}
	if charge == nil {
		h.Logger.Warn().Str("event_id", event.ID).Msg("no charge on event, skipping")
		return nil
	}

	orderID := orderIDFromMetadata(charge.Metadata)
	if orderID == "" {
		h.Logger.Warn().Str("charge_id", charge.ID).Msg("no order id in charge metadata, skipping")
		return nil
	}

	order, err := h.Orders.Get(ctx, orderID)
	if err != nil {
		return err
	}

	description := buildDescription(order.LineItems)
	if description == "" {
		h.Logger.Warn().Str("order_id", orderID).Msg("order has no named products, skipping")
		return nil
	}

	if paymentIntentID == "" && charge.PaymentIntent != nil {
		paymentIntentID = charge.PaymentIntent.ID
	}
	if paymentIntentID == "" {
		h.Logger.Warn().Str("charge_id", charge.ID).Str("order_id", orderID).Msg("no payment intent to update, skipping")
		return nil
	}

	metadata := map[string]string{
		"order_id":      orderID,
		"order_number":  strconv.FormatInt(order.OrderNumber, 10),
		"product_count": strconv.Itoa(len(order.LineItems)),
	}
	if _, err := h.Stripe.UpdatePaymentIntent(ctx, paymentIntentID, description, metadata); err != nil {
		return fmt.Errorf("update payment intent %s: %w", paymentIntentID, err)
	}
	h.Logger.Info().
		Str("payment_intent_id", paymentIntentID).
		Str("order_id", orderID).
		Msg("payment intent updated")
	return nil
}

// eventIdentifiers extracts the payment intent and charge ids carried by
// the event object. Either may be absent depending on the event shape.
func eventIdentifiers(event stripe.Event) (paymentIntentID, chargeID string, err error) {
	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return "", "", fmt.Errorf("decode payment intent event: %w", err)
		}
		paymentIntentID = pi.ID
		if pi.LatestCharge != nil {
			chargeID = pi.LatestCharge.ID
		}
	case stripe.EventTypeChargeSucceeded:
		var ch stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
			return "", "", fmt.Errorf("decode charge event: %w", err)
		}
		chargeID = ch.ID
		if ch.PaymentIntent != nil {
			paymentIntentID = ch.PaymentIntent.ID
		}
	}
	return paymentIntentID, chargeID, nil
}

// resolveCharge fetches the charge for the event, preferring a direct
// charge lookup and falling back to the payment intent's latest charge.
func (h Webhook) resolveCharge(ctx context.Context, paymentIntentID, chargeID string) (*stripe.Charge, error) {
	if chargeID != "" {
		return h.Stripe.Charge(ctx, chargeID)
	}
	if paymentIntentID != "" {
		pi, err := h.Stripe.PaymentIntent(ctx, paymentIntentID)
		if err != nil {
			return nil, err
		}
		return pi.LatestCharge, nil
	}
	return nil, nil
}

// Package stripe implements the payment.Gateway contract on Stripe
// hosted checkout and signed webhooks.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/harborlane/storefront/payment"
	"github.com/harborlane/storefront/types"
)

const metadataOrderKey = "orderId"

// compile-time interface check
var _ payment.Gateway = (*Gateway)(nil)

// Gateway is a Stripe-backed payment gateway. It owns its API client;
// nothing here touches stripe's package-level default client.
type Gateway struct {
	api           *client.API
	webhookSecret string
}

// New creates a Gateway from an API key and the webhook endpoint secret.
func New(apiKey, webhookSecret string) *Gateway {
	api := &client.API{}
	api.Init(apiKey, nil)

	return &Gateway{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

// CreateCheckoutSession creates a hosted checkout session in payment
// mode with one line entry per ordered item and the order id attached
// as session metadata.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, req *payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	items := make([]*stripe.CheckoutSessionLineItemParams, len(req.Items))
	for i, it := range req.Items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(it.Name),
		}
		if it.Description != "" {
			productData.Description = stripe.String(it.Description)
		}

		items[i] = &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(it.UnitAmount.Currency),
				ProductData: productData,
				UnitAmount:  stripe.Int64(it.UnitAmount.Amount),
			},
			Quantity: stripe.Int64(it.Quantity),
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  items,
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata(metadataOrderKey, req.OrderID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	out := &payment.CheckoutSession{
		ID:  sess.ID,
		URL: sess.URL,
	}
	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}
	return out, nil
}

// ParseWebhook verifies the event signature over the raw payload bytes
// and extracts the reconciliation fields. The payload must be the exact
// bytes read off the wire; re-serialized bodies fail verification.
func (g *Gateway) ParseWebhook(payload []byte, signature string) (*payment.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrInvalidSignature, err)
	}

	out := &payment.Event{
		ID:   event.ID,
		Type: payment.EventType(event.Type),
	}
	if out.Type != payment.EventCheckoutCompleted {
		return out, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("stripe: decode checkout session payload: %w", err)
	}

	out.OrderID = orderIDFromMetadata(sess.Metadata)
	out.PaymentStatus = string(sess.PaymentStatus)
	if len(sess.PaymentMethodTypes) > 0 {
		out.PaymentMethod = sess.PaymentMethodTypes[0]
	}
	out.AmountTotal = types.New(sess.AmountTotal, string(sess.Currency))

	return out, nil
}

// orderIDFromMetadata reads the order id out of session metadata. Older
// writers JSON-stringified the id before storing it, so a quoted value
// is unwrapped before use.
func orderIDFromMetadata(md map[string]string) string {
	raw := md[metadataOrderKey]
	if len(raw) >= 2 && raw[0] == '"' {
		if unquoted, err := strconv.Unquote(raw); err == nil {
			return unquoted
		}
	}
	return raw
}

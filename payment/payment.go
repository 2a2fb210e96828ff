// Package payment defines the gateway contract for hosted checkout and
// asynchronous webhook reconciliation.
//
// Implementations are explicitly constructed and passed into the engine,
// never module-level singletons, so tests can substitute doubles.
package payment

import (
	"context"
	"errors"

	"github.com/harborlane/storefront/types"
)

// ErrInvalidSignature is returned by ParseWebhook when the event
// signature does not verify against the raw payload bytes. It maps to
// HTTP 400 so the gateway's own retry policy re-delivers the event.
var ErrInvalidSignature = errors.New("payment: webhook signature verification failed")

// Gateway creates hosted checkout sessions and verifies webhook events.
//
// ParseWebhook must receive the untouched incoming byte stream: the
// signature covers exact bytes, and any re-serialization before
// verification invalidates it.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

// LineItem is one display entry on the hosted checkout page.
type LineItem struct {
	Name        string
	Description string
	UnitAmount  types.Money
	Quantity    int64
}

// CheckoutRequest describes a payment session for one order. OrderID is
// attached as opaque session metadata and round-trips through the
// webhook as the reconciliation key.
type CheckoutRequest struct {
	OrderID    string
	Items      []LineItem
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the gateway's answer: a hosted page the buyer
// completes, plus the gateway-assigned payment-intent identifier.
type CheckoutSession struct {
	ID              string
	URL             string
	PaymentIntentID string
}

// EventType discriminates webhook events. Only checkout completion
// carries reconciliation data; everything else is acknowledged and
// ignored (forward-compatible ignore-unknown-events policy).
type EventType string

const (
	EventCheckoutCompleted EventType = "checkout.session.completed"
)

// Event is a verified webhook event. For EventCheckoutCompleted the
// payment fields are populated from the gateway payload; OrderID is the
// metadata round-tripped from CheckoutRequest.
type Event struct {
	ID            string
	Type          EventType
	OrderID       string
	PaymentStatus string
	PaymentMethod string
	AmountTotal   types.Money
}

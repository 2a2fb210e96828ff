// Package order defines customer orders, their payment fields and the
// storage contract used by checkout and webhook reconciliation.
package order

import (
	"time"

	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/types"
	"github.com/harborlane/storefront/user"
)

// Status is the fulfillment state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
)

// Valid reports whether s is a known fulfillment state.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// PaymentStatus mirrors the gateway's payment state for the order.
type PaymentStatus string

const (
	PaymentStatusNotPaid PaymentStatus = "not paid"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// LineItem is a point-in-time snapshot of one ordered product. Name,
// description and unit price are copied from the product at order
// creation so later catalog edits do not rewrite order history.
type LineItem struct {
	ID          id.LineItemID `json:"id"`
	ProductID   id.ProductID  `json:"product_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Quantity    int64         `json:"quantity"`
	UnitPrice   types.Money   `json:"unit_price"`
}

// Subtotal is the line's contribution to the order subtotal.
func (li LineItem) Subtotal() types.Money {
	return li.UnitPrice.Multiply(li.Quantity)
}

// Order is a customer purchase. TotalPrice is computed once at creation
// (post-discount) and later overwritten by the gateway-reported amount
// during webhook reconciliation, which is authoritative.
type Order struct {
	types.Entity
	ID                id.OrderID    `json:"id"`
	UserID            id.UserID     `json:"user_id"`
	Items             []LineItem    `json:"items"`
	ShippingAddress   user.Address  `json:"shipping_address"`
	TotalPrice        types.Money   `json:"total_price"`
	Currency          string        `json:"currency"`
	CouponCode        string        `json:"coupon_code,omitempty"`
	DiscountPercent   int           `json:"discount_percent"`
	PaymentMethod     string        `json:"payment_method"`
	PaymentStatus     PaymentStatus `json:"payment_status"`
	PaymentIntentID   string        `json:"payment_intent_id,omitempty"`
	CheckoutSessionID string        `json:"checkout_session_id,omitempty"`
	Status            Status        `json:"status"`
	DeliveredAt       *time.Time    `json:"delivered_at,omitempty"`
}

// AwaitingPaymentSession reports whether checkout-session creation failed
// after the order was persisted, leaving it for the repair worker.
func (o *Order) AwaitingPaymentSession() bool {
	return o.CheckoutSessionID == "" && o.PaymentStatus == PaymentStatusNotPaid
}

// PaymentResult carries the gateway-reported outcome applied during
// reconciliation. Every field is a plain overwrite, nothing is
// incremented, so applying the same result twice is a no-op.
type PaymentResult struct {
	AmountTotal   types.Money
	Currency      string
	PaymentMethod string
	PaymentStatus PaymentStatus
}

// Stats aggregates totalPrice across all orders. TodayTotal covers orders
// created since the server's local midnight.
type Stats struct {
	Count      int64       `json:"count"`
	Min        types.Money `json:"min"`
	Max        types.Money `json:"max"`
	Avg        types.Money `json:"avg"`
	Total      types.Money `json:"total"`
	TodayTotal types.Money `json:"today_total"`
}

package order

import (
	"context"
	"time"

	"github.com/harborlane/storefront/id"
)

type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, orderID id.OrderID) (*Order, error)
	Delete(ctx context.Context, orderID id.OrderID) error
	List(ctx context.Context, opts ListOpts) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID id.OrderID, status Status, deliveredAt *time.Time) error
	SetPaymentSession(ctx context.Context, orderID id.OrderID, sessionID, paymentIntentID string) error
	ApplyPaymentResult(ctx context.Context, orderID id.OrderID, res PaymentResult) error
	ListAwaitingPaymentSession(ctx context.Context, createdBefore time.Time) ([]*Order, error)
	Stats(ctx context.Context, dayStart time.Time) (*Stats, error)
}

type ListOpts struct {
	UserID id.UserID // Nil lists all users' orders
	Status Status
	Limit  int
	Offset int
}

// Package plugin provides an extensible plugin system for Storefront.
// Plugins can hook into lifecycle events to extend functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Order lifecycle hooks
// ──────────────────────────────────────────────────

// OnOrderCreated is called after an order is persisted and priced.
type OnOrderCreated interface {
	Plugin
	OnOrderCreated(ctx context.Context, ord interface{}) error
}

// OnOrderStatusChanged is called when an admin updates fulfillment state.
type OnOrderStatusChanged interface {
	Plugin
	OnOrderStatusChanged(ctx context.Context, orderID, status string) error
}

// OnPaymentCompleted is called after webhook reconciliation updates an
// order's payment fields. Reconciliation is idempotent, so a hook may
// fire more than once for the same logical payment.
type OnPaymentCompleted interface {
	Plugin
	OnPaymentCompleted(ctx context.Context, ord interface{}) error
}

// OnPaymentSessionFailed is called when checkout-session creation fails
// after the order was persisted.
type OnPaymentSessionFailed interface {
	Plugin
	OnPaymentSessionFailed(ctx context.Context, orderID string, err error) error
}

// ──────────────────────────────────────────────────
// Coupon and catalog hooks
// ──────────────────────────────────────────────────

// OnCouponRedeemed is called when a coupon is applied to an order.
type OnCouponRedeemed interface {
	Plugin
	OnCouponRedeemed(ctx context.Context, code string, discountPercent int) error
}

// OnProductCreated is called when a new product enters the catalog.
type OnProductCreated interface {
	Plugin
	OnProductCreated(ctx context.Context, product interface{}) error
}

// OnUserRegistered is called when a new account is created.
type OnUserRegistered interface {
	Plugin
	OnUserRegistered(ctx context.Context, userID string) error
}

package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// Interfaces are cached at registration time for O(1) dispatch.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                 []OnInit
	onShutdown             []OnShutdown
	onOrderCreated         []OnOrderCreated
	onOrderStatusChanged   []OnOrderStatusChanged
	onPaymentCompleted     []OnPaymentCompleted
	onPaymentSessionFailed []OnPaymentSessionFailed
	onCouponRedeemed       []OnCouponRedeemed
	onProductCreated       []OnProductCreated
	onUserRegistered       []OnUserRegistered
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnOrderCreated); ok {
		r.onOrderCreated = append(r.onOrderCreated, v)
	}
	if v, ok := p.(OnOrderStatusChanged); ok {
		r.onOrderStatusChanged = append(r.onOrderStatusChanged, v)
	}
	if v, ok := p.(OnPaymentCompleted); ok {
		r.onPaymentCompleted = append(r.onPaymentCompleted, v)
	}
	if v, ok := p.(OnPaymentSessionFailed); ok {
		r.onPaymentSessionFailed = append(r.onPaymentSessionFailed, v)
	}
	if v, ok := p.(OnCouponRedeemed); ok {
		r.onCouponRedeemed = append(r.onCouponRedeemed, v)
	}
	if v, ok := p.(OnProductCreated); ok {
		r.onProductCreated = append(r.onProductCreated, v)
	}
	if v, ok := p.(OnUserRegistered); ok {
		r.onUserRegistered = append(r.onUserRegistered, v)
	}

	r.logger.Info("plugin registered", "name", p.Name())

	return nil
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitOrderCreated emits an order created event.
func (r *Registry) EmitOrderCreated(ctx context.Context, ord interface{}) {
	r.mu.RLock()
	plugins := r.onOrderCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOrderCreated(ctx, ord)
		}); err != nil {
			r.logger.Warn("plugin OnOrderCreated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitOrderStatusChanged emits a fulfillment status change event.
func (r *Registry) EmitOrderStatusChanged(ctx context.Context, orderID, status string) {
	r.mu.RLock()
	plugins := r.onOrderStatusChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOrderStatusChanged(ctx, orderID, status)
		}); err != nil {
			r.logger.Warn("plugin OnOrderStatusChanged failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitPaymentCompleted emits a payment completed event.
func (r *Registry) EmitPaymentCompleted(ctx context.Context, ord interface{}) {
	r.mu.RLock()
	plugins := r.onPaymentCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPaymentCompleted(ctx, ord)
		}); err != nil {
			r.logger.Warn("plugin OnPaymentCompleted failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitPaymentSessionFailed emits a payment session failure event.
func (r *Registry) EmitPaymentSessionFailed(ctx context.Context, orderID string, cause error) {
	r.mu.RLock()
	plugins := r.onPaymentSessionFailed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPaymentSessionFailed(ctx, orderID, cause)
		}); err != nil {
			r.logger.Warn("plugin OnPaymentSessionFailed failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitCouponRedeemed emits a coupon redemption event.
func (r *Registry) EmitCouponRedeemed(ctx context.Context, code string, discountPercent int) {
	r.mu.RLock()
	plugins := r.onCouponRedeemed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCouponRedeemed(ctx, code, discountPercent)
		}); err != nil {
			r.logger.Warn("plugin OnCouponRedeemed failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitProductCreated emits a product created event.
func (r *Registry) EmitProductCreated(ctx context.Context, product interface{}) {
	r.mu.RLock()
	plugins := r.onProductCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnProductCreated(ctx, product)
		}); err != nil {
			r.logger.Warn("plugin OnProductCreated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitUserRegistered emits a user registration event.
func (r *Registry) EmitUserRegistered(ctx context.Context, userID string) {
	r.mu.RLock()
	plugins := r.onUserRegistered
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnUserRegistered(ctx, userID)
		}); err != nil {
			r.logger.Warn("plugin OnUserRegistered failed", "plugin", p.Name(), "error", err)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins must never block the request pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}

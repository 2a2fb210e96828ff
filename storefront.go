package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/harborlane/storefront/blob"
	"github.com/harborlane/storefront/coupon"
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/order"
	"github.com/harborlane/storefront/payment"
	"github.com/harborlane/storefront/plugin"
	"github.com/harborlane/storefront/store"
	"github.com/harborlane/storefront/types"
	"github.com/harborlane/storefront/user"
)

// OversellPolicy controls what happens when an order asks for more stock
// than a product has left.
type OversellPolicy int

const (
	// OversellReject fails the inventory adjustment when stock would go
	// negative. This is the default.
	OversellReject OversellPolicy = iota

	// OversellAllow lets QtyLeft go negative, for merchants who fulfil
	// from backorder.
	OversellAllow
)

// Storefront is the main commerce engine. It owns checkout, payment
// reconciliation and the catalog, coupon, review and account operations
// behind them. Construct one with New, wire it to a store and a payment
// gateway, then Start it.
type Storefront struct {
	store    store.Store
	gateway  payment.Gateway
	blobs    blob.Store
	plugins  *plugin.Registry
	logger   *slog.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup

	// Configuration
	oversellPolicy        OversellPolicy
	successURL            string
	cancelURL             string
	sessionRepairInterval time.Duration
}

// New creates a new Storefront instance.
func New(s store.Store, gw payment.Gateway, opts ...Option) *Storefront {
	sf := &Storefront{
		store:                 s,
		gateway:               gw,
		plugins:               plugin.NewRegistry(),
		logger:                slog.Default(),
		stopChan:              make(chan struct{}),
		oversellPolicy:        OversellReject,
		successURL:            "http://localhost:3000/success",
		cancelURL:             "http://localhost:3000/cancel",
		sessionRepairInterval: time.Minute,
	}

	for _, opt := range opts {
		opt(sf)
	}

	return sf
}

// Option configures a Storefront instance.
type Option func(*Storefront)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(sf *Storefront) {
		sf.logger = logger
		sf.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(sf *Storefront) {
		_ = sf.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithBlobStore wires object storage for product image uploads. Without
// it, image operations fail with ErrNoBlobStore.
func WithBlobStore(b blob.Store) Option {
	return func(sf *Storefront) {
		sf.blobs = b
	}
}

// WithOversellPolicy sets the inventory policy for checkout.
func WithOversellPolicy(p OversellPolicy) Option {
	return func(sf *Storefront) {
		sf.oversellPolicy = p
	}
}

// WithCheckoutURLs sets the hosted-checkout redirect targets.
func WithCheckoutURLs(successURL, cancelURL string) Option {
	return func(sf *Storefront) {
		sf.successURL = successURL
		sf.cancelURL = cancelURL
	}
}

// WithSessionRepairInterval sets how often the repair worker retries
// checkout-session creation for orders whose first attempt failed.
func WithSessionRepairInterval(interval time.Duration) Option {
	return func(sf *Storefront) {
		sf.sessionRepairInterval = interval
	}
}

// Start migrates the store, initializes plugins and begins background
// workers.
func (sf *Storefront) Start(ctx context.Context) error {
	if err := sf.store.Migrate(ctx); err != nil {
		return err
	}

	sf.plugins.EmitInit(ctx, sf)

	sf.wg.Add(1)
	go sf.sessionRepairWorker(ctx)

	sf.logger.Info("storefront started",
		"oversell_policy", sf.oversellPolicy,
		"session_repair_interval", sf.sessionRepairInterval,
	)

	return nil
}

// Stop shuts down the Storefront.
func (sf *Storefront) Stop() error {
	close(sf.stopChan)
	sf.wg.Wait()

	ctx := context.Background()
	sf.plugins.EmitShutdown(ctx)

	return sf.store.Close()
}

// ──────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────

// OrderItem is one requested line of a new order. Only the product
// reference and quantity come from the client; prices are always read
// from the live catalog.
type OrderItem struct {
	ProductID id.ProductID
	Quantity  int64
}

// CreateOrderRequest describes a checkout attempt. CouponCode is
// mandatory: every order carries a discount, even a 0% one.
// ShippingAddress, when set, overrides the buyer's stored profile
// address for this order only.
type CreateOrderRequest struct {
	UserID          id.UserID
	CouponCode      string
	ShippingAddress *user.Address
	Items           []OrderItem
}

// CheckoutResult is a persisted order plus the hosted payment page the
// buyer must complete.
type CheckoutResult struct {
	Order       *order.Order
	CheckoutURL string
}

// CreateOrder validates the coupon and the buyer's shipping profile,
// prices the requested items from the live catalog, persists the order,
// adjusts inventory and opens a hosted checkout session.
//
// The order insert is the durability point, with one exception: an
// inventory rejection deletes the just-inserted order and restores any
// lines already decremented, since such an order must never reach the
// session repair worker. Later failures (user order list, payment
// session) are not rolled back; a failed session creation leaves the
// order for the repair worker and returns ErrPaymentSetup.
func (sf *Storefront) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CheckoutResult, error) {
	cpn, err := sf.redeemableCoupon(ctx, req.CouponCode)
	if err != nil {
		return nil, err
	}

	u, err := sf.store.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	shipTo := req.ShippingAddress
	if shipTo == nil {
		if !u.HasShippingAddress || u.ShippingAddress == nil {
			return nil, ErrShippingAddressRequired
		}
		shipTo = u.ShippingAddress
	}

	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	items, subtotal, err := sf.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	ord := &order.Order{
		Entity:          types.NewEntity(),
		ID:              id.NewOrderID(),
		UserID:          u.ID,
		Items:           items,
		ShippingAddress: *shipTo,
		TotalPrice:      subtotal.ApplyDiscountPercent(cpn.Discount),
		Currency:        subtotal.Currency,
		CouponCode:      cpn.Code,
		DiscountPercent: cpn.Discount,
		PaymentStatus:   order.PaymentStatusNotPaid,
		Status:          order.StatusPending,
	}

	if err := sf.store.CreateOrder(ctx, ord); err != nil {
		return nil, err
	}

	allowNegative := sf.oversellPolicy == OversellAllow
	for i, item := range items {
		if err := sf.store.AdjustInventory(ctx, item.ProductID, item.Quantity, allowNegative); err != nil {
			sf.discardRejectedOrder(ctx, ord, items[:i])
			return nil, fmt.Errorf("adjust inventory for %s: %w", item.ProductID, err)
		}
	}

	if err := sf.store.AppendUserOrder(ctx, u.ID, ord.ID); err != nil {
		return nil, err
	}

	sf.plugins.EmitCouponRedeemed(ctx, cpn.Code, cpn.Discount)
	sf.plugins.EmitOrderCreated(ctx, ord)

	sess, err := sf.createCheckoutSession(ctx, ord)
	if err != nil {
		sf.logger.Error("checkout session creation failed",
			"order_id", ord.ID,
			"error", err,
		)
		sf.plugins.EmitPaymentSessionFailed(ctx, ord.ID.String(), err)
		return nil, fmt.Errorf("%w: order %s", ErrPaymentSetup, ord.ID)
	}

	if err := sf.store.SetPaymentSession(ctx, ord.ID, sess.ID, sess.PaymentIntentID); err != nil {
		return nil, err
	}
	ord.CheckoutSessionID = sess.ID
	ord.PaymentIntentID = sess.PaymentIntentID

	return &CheckoutResult{Order: ord, CheckoutURL: sess.URL}, nil
}

// discardRejectedOrder unwinds a checkout that failed inventory
// adjustment: lines already decremented are restored and the inserted
// order is deleted, so the session repair worker never attaches a
// payment session to it. Cleanup failures are logged; the caller's
// rejection error stands either way.
func (sf *Storefront) discardRejectedOrder(ctx context.Context, ord *order.Order, adjusted []order.LineItem) {
	for _, item := range adjusted {
		if err := sf.store.AdjustInventory(ctx, item.ProductID, -item.Quantity, true); err != nil {
			sf.logger.Error("restore inventory for rejected order failed",
				"order_id", ord.ID,
				"product_id", item.ProductID,
				"error", err,
			)
		}
	}
	if err := sf.store.DeleteOrder(ctx, ord.ID); err != nil {
		sf.logger.Error("delete rejected order failed",
			"order_id", ord.ID,
			"error", err,
		)
	}
}

// redeemableCoupon looks up a coupon by normalized code and rejects
// expired ones.
func (sf *Storefront) redeemableCoupon(ctx context.Context, code string) (*coupon.Coupon, error) {
	cpn, err := sf.store.GetCouponByCode(ctx, coupon.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if cpn.IsExpired(time.Now()) {
		return nil, ErrCouponExpired
	}
	return cpn, nil
}

// priceItems snapshots each requested product into a line item at its
// current catalog price and returns the pre-discount subtotal.
func (sf *Storefront) priceItems(ctx context.Context, items []OrderItem) ([]order.LineItem, types.Money, error) {
	lines := make([]order.LineItem, 0, len(items))
	var subtotal types.Money

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, types.Money{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}

		p, err := sf.store.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, types.Money{}, err
		}

		line := order.LineItem{
			ID:          id.NewLineItemID(),
			ProductID:   p.ID,
			Name:        p.Name,
			Description: p.Description,
			Quantity:    item.Quantity,
			UnitPrice:   p.Price,
		}
		lines = append(lines, line)

		if subtotal.Currency == "" {
			subtotal = types.Zero(p.Price.Currency)
		}
		subtotal = subtotal.Add(line.Subtotal())
	}

	return lines, subtotal, nil
}

func (sf *Storefront) createCheckoutSession(ctx context.Context, ord *order.Order) (*payment.CheckoutSession, error) {
	items := make([]payment.LineItem, 0, len(ord.Items))
	for _, li := range ord.Items {
		items = append(items, payment.LineItem{
			Name:        li.Name,
			Description: li.Description,
			UnitAmount:  li.UnitPrice,
			Quantity:    li.Quantity,
		})
	}

	return sf.gateway.CreateCheckoutSession(ctx, &payment.CheckoutRequest{
		OrderID:    ord.ID.String(),
		Items:      items,
		SuccessURL: sf.successURL,
		CancelURL:  sf.cancelURL,
	})
}

// ──────────────────────────────────────────────────
// Webhook Reconciliation
// ──────────────────────────────────────────────────

// ProcessWebhook verifies and dispatches a raw gateway webhook. The
// payload must be the untouched request body; the signature covers
// exact bytes.
//
// A nil return means the event was consumed and the gateway should not
// redeliver it. Unknown event types and events that match no order are
// consumed deliberately; only signature failures and store errors
// propagate.
func (sf *Storefront) ProcessWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := sf.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}

	switch ev.Type {
	case payment.EventCheckoutCompleted:
		return sf.ReconcilePayment(ctx, ev)
	default:
		sf.logger.Debug("ignoring webhook event", "type", ev.Type, "event_id", ev.ID)
		return nil
	}
}

// ReconcilePayment applies a verified checkout-completion event to its
// order. The gateway-reported amount, currency, method and status
// overwrite the order's fields; the overwrite is idempotent, so
// redelivered events are harmless.
//
// An event naming a missing or unparseable order is logged and consumed:
// a 4xx here would make the gateway retry an event that can never apply.
func (sf *Storefront) ReconcilePayment(ctx context.Context, ev *payment.Event) error {
	orderID, err := id.ParseOrderID(ev.OrderID)
	if err != nil {
		sf.logger.Warn("webhook event carries invalid order id",
			"event_id", ev.ID,
			"order_id", ev.OrderID,
		)
		return nil
	}

	ord, err := sf.store.GetOrder(ctx, orderID)
	if err != nil {
		if IsNotFound(err) {
			sf.logger.Warn("webhook event matches no order",
				"event_id", ev.ID,
				"order_id", ev.OrderID,
			)
			return nil
		}
		return err
	}

	res := order.PaymentResult{
		AmountTotal:   ev.AmountTotal,
		Currency:      ev.AmountTotal.Currency,
		PaymentMethod: ev.PaymentMethod,
		PaymentStatus: order.PaymentStatus(ev.PaymentStatus),
	}
	if err := sf.store.ApplyPaymentResult(ctx, ord.ID, res); err != nil {
		return err
	}

	ord.TotalPrice = res.AmountTotal
	ord.Currency = res.Currency
	ord.PaymentMethod = res.PaymentMethod
	ord.PaymentStatus = res.PaymentStatus

	sf.plugins.EmitPaymentCompleted(ctx, ord)

	sf.logger.Info("payment reconciled",
		"order_id", ord.ID,
		"amount", ord.TotalPrice.String(),
		"payment_status", ord.PaymentStatus,
	)

	return nil
}

// ──────────────────────────────────────────────────
// Orders
// ──────────────────────────────────────────────────

// GetOrder retrieves an order by ID.
func (sf *Storefront) GetOrder(ctx context.Context, orderID id.OrderID) (*order.Order, error) {
	return sf.store.GetOrder(ctx, orderID)
}

// ListOrders lists orders, optionally filtered by user and status.
func (sf *Storefront) ListOrders(ctx context.Context, opts order.ListOpts) ([]*order.Order, error) {
	return sf.store.ListOrders(ctx, opts)
}

// UpdateOrderStatus moves an order through fulfillment. Reaching the
// delivered state stamps DeliveredAt.
func (sf *Storefront) UpdateOrderStatus(ctx context.Context, orderID id.OrderID, status order.Status) (*order.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, status)
	}

	var deliveredAt *time.Time
	if status == order.StatusDelivered {
		now := time.Now()
		deliveredAt = &now
	}

	if err := sf.store.UpdateOrderStatus(ctx, orderID, status, deliveredAt); err != nil {
		return nil, err
	}

	sf.plugins.EmitOrderStatusChanged(ctx, orderID.String(), string(status))

	return sf.store.GetOrder(ctx, orderID)
}

// SalesStats aggregates order totals across all orders plus today's
// revenue, where "today" starts at the server's local midnight.
func (sf *Storefront) SalesStats(ctx context.Context) (*order.Stats, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return sf.store.OrderStats(ctx, dayStart)
}

// ──────────────────────────────────────────────────
// Session Repair Worker
// ──────────────────────────────────────────────────

// sessionRepairWorker retries checkout-session creation for orders whose
// first attempt failed after the order was persisted.
func (sf *Storefront) sessionRepairWorker(ctx context.Context) {
	defer sf.wg.Done()

	ticker := time.NewTicker(sf.sessionRepairInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sf.stopChan:
			return
		case <-ticker.C:
			sf.repairPaymentSessions(ctx)
		}
	}
}

func (sf *Storefront) repairPaymentSessions(ctx context.Context) {
	// Only touch orders older than one interval, so the worker never
	// races a checkout still in flight.
	cutoff := time.Now().Add(-sf.sessionRepairInterval)

	orders, err := sf.store.ListOrdersAwaitingPaymentSession(ctx, cutoff)
	if err != nil {
		sf.logger.Error("listing orders awaiting payment session failed", "error", err)
		return
	}

	for _, ord := range orders {
		sess, err := sf.createCheckoutSession(ctx, ord)
		if err != nil {
			sf.logger.Warn("payment session repair failed",
				"order_id", ord.ID,
				"error", err,
			)
			continue
		}

		if err := sf.store.SetPaymentSession(ctx, ord.ID, sess.ID, sess.PaymentIntentID); err != nil {
			sf.logger.Error("storing repaired payment session failed",
				"order_id", ord.ID,
				"error", err,
			)
			continue
		}

		sf.logger.Info("payment session repaired", "order_id", ord.ID, "session_id", sess.ID)
	}
}

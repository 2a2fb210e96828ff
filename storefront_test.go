package storefront_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/harborlane/storefront"
	"github.com/harborlane/storefront/catalog"
	"github.com/harborlane/storefront/coupon"
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/order"
	"github.com/harborlane/storefront/payment"
	"github.com/harborlane/storefront/review"
	"github.com/harborlane/storefront/store/memory"
	"github.com/harborlane/storefront/types"
	"github.com/harborlane/storefront/user"
)

const goodSignature = "t=1700000000,v1=valid"

// fakeGateway is an in-memory payment.Gateway. Webhook payloads are JSON
// encodings of webhookPayload signed with goodSignature.
type fakeGateway struct {
	mu         sync.Mutex
	failCreate bool
	sessions   int
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, _ *payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failCreate {
		return nil, errors.New("gateway unavailable")
	}

	g.sessions++
	return &payment.CheckoutSession{
		ID:              fmt.Sprintf("cs_test_%d", g.sessions),
		URL:             fmt.Sprintf("https://checkout.example.com/pay/cs_test_%d", g.sessions),
		PaymentIntentID: fmt.Sprintf("pi_test_%d", g.sessions),
	}, nil
}

func (g *fakeGateway) setFailCreate(fail bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failCreate = fail
}

type webhookPayload struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	OrderID       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
	PaymentMethod string `json:"payment_method"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
}

func (g *fakeGateway) ParseWebhook(payload []byte, signature string) (*payment.Event, error) {
	if signature != goodSignature {
		return nil, payment.ErrInvalidSignature
	}

	var p webhookPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}

	return &payment.Event{
		ID:            p.ID,
		Type:          payment.EventType(p.Type),
		OrderID:       p.OrderID,
		PaymentStatus: p.PaymentStatus,
		PaymentMethod: p.PaymentMethod,
		AmountTotal:   types.New(p.Amount, p.Currency),
	}, nil
}

func completedPayload(t *testing.T, orderID string, amount int64) []byte {
	t.Helper()

	data, err := json.Marshal(webhookPayload{
		ID:            "evt_test_1",
		Type:          string(payment.EventCheckoutCompleted),
		OrderID:       orderID,
		PaymentStatus: string(order.PaymentStatusPaid),
		PaymentMethod: "card",
		Amount:        amount,
		Currency:      "usd",
	})
	if err != nil {
		t.Fatalf("marshal webhook payload: %v", err)
	}
	return data
}

// testEnv wires an engine over the memory store with one registered
// buyer (shipping address set), one product priced at $100.00 with 10
// in stock, and a 10% coupon SAVE10.
type testEnv struct {
	store   *memory.Store
	gateway *fakeGateway
	engine  *storefront.Storefront
	buyer   *user.User
	product *catalog.Product
}

func newTestEnv(t *testing.T, opts ...storefront.Option) *testEnv {
	t.Helper()
	ctx := context.Background()

	st := memory.New()
	gw := &fakeGateway{}

	opts = append(opts, storefront.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	engine := storefront.New(st, gw, opts...)

	buyer, err := engine.RegisterUser(ctx, "Ada Lovelace", "ada@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("register buyer: %v", err)
	}
	if _, err := engine.UpdateShippingAddress(ctx, buyer.ID, user.Address{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Street:     "12 Analytical Way",
		City:       "London",
		PostalCode: "EC1A 1BB",
		Country:    "GB",
	}); err != nil {
		t.Fatalf("set shipping address: %v", err)
	}

	if err := engine.CreateCategory(ctx, &catalog.Category{Name: "shoes"}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if err := engine.CreateBrand(ctx, &catalog.Brand{Name: "acme"}); err != nil {
		t.Fatalf("create brand: %v", err)
	}

	product := &catalog.Product{
		Name:        "Trail Runner",
		Description: "Lightweight trail shoe",
		Brand:       "acme",
		Category:    "shoes",
		Price:       types.USD(10000),
		TotalQty:    10,
	}
	if err := engine.CreateProduct(ctx, product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	now := time.Now()
	if err := engine.CreateCoupon(ctx, &coupon.Coupon{
		Code:      "SAVE10",
		StartDate: now.Add(time.Minute),
		EndDate:   now.Add(48 * time.Hour),
		Discount:  10,
	}); err != nil {
		t.Fatalf("create coupon: %v", err)
	}

	return &testEnv{store: st, gateway: gw, engine: engine, buyer: buyer, product: product}
}

// seedExpiredCoupon writes an already-expired coupon directly to the
// store, bypassing the engine's no-past-dates write validation.
func (env *testEnv) seedExpiredCoupon(t *testing.T, code string) {
	t.Helper()

	now := time.Now()
	err := env.store.CreateCoupon(context.Background(), &coupon.Coupon{
		Entity:    types.NewEntity(),
		ID:        id.NewCouponID(),
		Code:      coupon.NormalizeCode(code),
		StartDate: now.Add(-48 * time.Hour),
		EndDate:   now.Add(-24 * time.Hour),
		Discount:  10,
	})
	if err != nil {
		t.Fatalf("seed expired coupon: %v", err)
	}
}

func (env *testEnv) checkout(t *testing.T, quantity int64) *storefront.CheckoutResult {
	t.Helper()

	res, err := env.engine.CreateOrder(context.Background(), &storefront.CreateOrderRequest{
		UserID:     env.buyer.ID,
		CouponCode: "SAVE10",
		Items:      []storefront.OrderItem{{ProductID: env.product.ID, Quantity: quantity}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return res
}

func (env *testEnv) orderCount(t *testing.T) int {
	t.Helper()

	orders, err := env.store.ListOrders(context.Background(), order.ListOpts{})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	return len(orders)
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.engine.CreateOrder(ctx, &storefront.CreateOrderRequest{
		UserID:     env.buyer.ID,
		CouponCode: "save10", // redemption is case-insensitive
		Items:      []storefront.OrderItem{{ProductID: env.product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if res.CheckoutURL == "" {
		t.Error("CheckoutURL is empty")
	}

	ord := res.Order
	// 2 x $100.00 minus 10% = $180.00
	if want := types.USD(18000); !ord.TotalPrice.Equal(want) {
		t.Errorf("TotalPrice: got %v, want %v", ord.TotalPrice, want)
	}
	if ord.CouponCode != "SAVE10" {
		t.Errorf("CouponCode: got %q, want %q", ord.CouponCode, "SAVE10")
	}
	if ord.DiscountPercent != 10 {
		t.Errorf("DiscountPercent: got %d, want 10", ord.DiscountPercent)
	}
	if ord.Status != order.StatusPending {
		t.Errorf("Status: got %q, want %q", ord.Status, order.StatusPending)
	}
	if ord.PaymentStatus != order.PaymentStatusNotPaid {
		t.Errorf("PaymentStatus: got %q, want %q", ord.PaymentStatus, order.PaymentStatusNotPaid)
	}
	if ord.CheckoutSessionID == "" {
		t.Error("CheckoutSessionID is empty")
	}
	if len(ord.Items) != 1 {
		t.Fatalf("Items: got %d, want 1", len(ord.Items))
	}
	if ord.Items[0].Name != env.product.Name {
		t.Errorf("line item name: got %q, want %q", ord.Items[0].Name, env.product.Name)
	}
	if ord.ShippingAddress.City != "London" {
		t.Errorf("shipping address not snapshotted: %+v", ord.ShippingAddress)
	}

	// Persisted state: order fetchable, inventory moved, user owns it.
	stored, err := env.engine.GetOrder(ctx, ord.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if !stored.TotalPrice.Equal(ord.TotalPrice) {
		t.Errorf("stored TotalPrice: got %v, want %v", stored.TotalPrice, ord.TotalPrice)
	}

	p, err := env.engine.GetProduct(ctx, env.product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p.TotalSold != 2 {
		t.Errorf("TotalSold: got %d, want 2", p.TotalSold)
	}
	if p.QtyLeft() != 8 {
		t.Errorf("QtyLeft: got %d, want 8", p.QtyLeft())
	}

	buyer, err := env.engine.GetUser(ctx, env.buyer.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if len(buyer.Orders) != 1 || buyer.Orders[0] != ord.ID {
		t.Errorf("buyer order list: got %v, want [%v]", buyer.Orders, ord.ID)
	}
}

func TestCreateOrderRejections(t *testing.T) {
	tests := []struct {
		name    string
		request func(t *testing.T, env *testEnv) *storefront.CreateOrderRequest
		wantErr error
	}{
		{
			name: "unknown coupon",
			request: func(_ *testing.T, env *testEnv) *storefront.CreateOrderRequest {
				return &storefront.CreateOrderRequest{
					UserID:     env.buyer.ID,
					CouponCode: "NOPE",
					Items:      []storefront.OrderItem{{ProductID: env.product.ID, Quantity: 1}},
				}
			},
			wantErr: storefront.ErrCouponNotFound,
		},
		{
			name: "expired coupon",
			request: func(t *testing.T, env *testEnv) *storefront.CreateOrderRequest {
				env.seedExpiredCoupon(t, "OLD10")
				return &storefront.CreateOrderRequest{
					UserID:     env.buyer.ID,
					CouponCode: "OLD10",
					Items:      []storefront.OrderItem{{ProductID: env.product.ID, Quantity: 1}},
				}
			},
			wantErr: storefront.ErrCouponExpired,
		},
		{
			name: "no shipping address",
			request: func(t *testing.T, env *testEnv) *storefront.CreateOrderRequest {
				newcomer, err := env.engine.RegisterUser(context.Background(), "Grace Hopper", "grace@example.com", "cobol forever")
				if err != nil {
					t.Fatalf("register newcomer: %v", err)
				}
				return &storefront.CreateOrderRequest{
					UserID:     newcomer.ID,
					CouponCode: "SAVE10",
					Items:      []storefront.OrderItem{{ProductID: env.product.ID, Quantity: 1}},
				}
			},
			wantErr: storefront.ErrShippingAddressRequired,
		},
		{
			name: "empty items",
			request: func(_ *testing.T, env *testEnv) *storefront.CreateOrderRequest {
				return &storefront.CreateOrderRequest{
					UserID:     env.buyer.ID,
					CouponCode: "SAVE10",
				}
			},
			wantErr: storefront.ErrEmptyOrder,
		},
		{
			name: "unknown product",
			request: func(_ *testing.T, env *testEnv) *storefront.CreateOrderRequest {
				return &storefront.CreateOrderRequest{
					UserID:     env.buyer.ID,
					CouponCode: "SAVE10",
					Items:      []storefront.OrderItem{{ProductID: id.NewProductID(), Quantity: 1}},
				}
			},
			wantErr: storefront.ErrProductNotFound,
		},
		{
			name: "non-positive quantity",
			request: func(_ *testing.T, env *testEnv) *storefront.CreateOrderRequest {
				return &storefront.CreateOrderRequest{
					UserID:     env.buyer.ID,
					CouponCode: "SAVE10",
					Items:      []storefront.OrderItem{{ProductID: env.product.ID, Quantity: 0}},
				}
			},
			wantErr: storefront.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, err := env.engine.CreateOrder(context.Background(), tt.request(t, env))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Got error %v, want %v", err, tt.wantErr)
			}

			// A rejected checkout attempt must not leave a persisted order.
			if n := env.orderCount(t); n != 0 {
				t.Errorf("Order count after rejection: got %d, want 0", n)
			}
		})
	}
}

func TestCreateOrderShippingOverride(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A buyer with no stored address can still check out with a
	// per-order address.
	newcomer, err := env.engine.RegisterUser(ctx, "Grace Hopper", "grace@example.com", "cobol forever")
	if err != nil {
		t.Fatalf("register newcomer: %v", err)
	}

	res, err := env.engine.CreateOrder(ctx, &storefront.CreateOrderRequest{
		UserID:     newcomer.ID,
		CouponCode: "SAVE10",
		ShippingAddress: &user.Address{
			FirstName: "Grace", LastName: "Hopper",
			Street: "1 Navy Yard", City: "Arlington", PostalCode: "22202", Country: "US",
		},
		Items: []storefront.OrderItem{{ProductID: env.product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder with override: %v", err)
	}
	if res.Order.ShippingAddress.City != "Arlington" {
		t.Errorf("shipping address: got %q, want %q", res.Order.ShippingAddress.City, "Arlington")
	}

	// The override is per-order; the profile stays empty.
	stored, err := env.engine.GetUser(ctx, newcomer.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if stored.HasShippingAddress {
		t.Error("override leaked into the profile")
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.CreateOrder(ctx, &storefront.CreateOrderRequest{
		UserID:     env.buyer.ID,
		CouponCode: "SAVE10",
		Items:      []storefront.OrderItem{{ProductID: env.product.ID, Quantity: 11}},
	})
	if !errors.Is(err, storefront.ErrInsufficientStock) {
		t.Fatalf("Got error %v, want %v", err, storefront.ErrInsufficientStock)
	}

	p, err := env.engine.GetProduct(ctx, env.product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p.TotalSold != 0 {
		t.Errorf("TotalSold moved on rejected adjustment: got %d, want 0", p.TotalSold)
	}

	// The rejected order must not survive the checkout failure, or the
	// session repair worker would later attach a live payment session to
	// an order whose inventory was never decremented.
	if n := env.orderCount(t); n != 0 {
		t.Errorf("Order count after rejection: got %d, want 0", n)
	}
	stale, err := env.store.ListOrdersAwaitingPaymentSession(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ListOrdersAwaitingPaymentSession: %v", err)
	}
	if len(stale) != 0 {
		t.Errorf("Orders awaiting payment session: got %d, want 0", len(stale))
	}
}

func TestCreateOrderPartialStockRestored(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	scarce := &catalog.Product{
		Name:        "Summit Jacket",
		Description: "Waterproof shell",
		Brand:       "acme",
		Category:    "shoes",
		Price:       types.USD(25000),
		TotalQty:    1,
	}
	if err := env.engine.CreateProduct(ctx, scarce); err != nil {
		t.Fatalf("create product: %v", err)
	}

	// First line fits, second exceeds stock. The whole checkout must
	// unwind: the first line's decrement is restored and no order stays.
	_, err := env.engine.CreateOrder(ctx, &storefront.CreateOrderRequest{
		UserID:     env.buyer.ID,
		CouponCode: "SAVE10",
		Items: []storefront.OrderItem{
			{ProductID: env.product.ID, Quantity: 3},
			{ProductID: scarce.ID, Quantity: 2},
		},
	})
	if !errors.Is(err, storefront.ErrInsufficientStock) {
		t.Fatalf("Got error %v, want %v", err, storefront.ErrInsufficientStock)
	}

	p, err := env.engine.GetProduct(ctx, env.product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p.TotalSold != 0 {
		t.Errorf("TotalSold on first line: got %d, want 0", p.TotalSold)
	}
	if n := env.orderCount(t); n != 0 {
		t.Errorf("Order count after rejection: got %d, want 0", n)
	}
}

func TestCreateOrderOversellAllowed(t *testing.T) {
	env := newTestEnv(t, storefront.WithOversellPolicy(storefront.OversellAllow))
	ctx := context.Background()

	res := env.checkout(t, 11)
	if res.Order == nil {
		t.Fatal("expected an order")
	}

	p, err := env.engine.GetProduct(ctx, env.product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if p.QtyLeft() != -1 {
		t.Errorf("QtyLeft: got %d, want -1", p.QtyLeft())
	}
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.gateway.setFailCreate(true)

	_, err := env.engine.CreateOrder(ctx, &storefront.CreateOrderRequest{
		UserID:     env.buyer.ID,
		CouponCode: "SAVE10",
		Items:      []storefront.OrderItem{{ProductID: env.product.ID, Quantity: 1}},
	})
	if !errors.Is(err, storefront.ErrPaymentSetup) {
		t.Fatalf("Got error %v, want %v", err, storefront.ErrPaymentSetup)
	}

	// The order survives the gateway failure and waits for repair.
	orders, err := env.store.ListOrders(ctx, order.ListOpts{})
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("Order count: got %d, want 1", len(orders))
	}
	if !orders[0].AwaitingPaymentSession() {
		t.Error("order should be awaiting a payment session")
	}
}

func TestPaymentSessionRepair(t *testing.T) {
	env := newTestEnv(t, storefront.WithSessionRepairInterval(20*time.Millisecond))
	ctx := context.Background()

	env.gateway.setFailCreate(true)
	_, err := env.engine.CreateOrder(ctx, &storefront.CreateOrderRequest{
		UserID:     env.buyer.ID,
		CouponCode: "SAVE10",
		Items:      []storefront.OrderItem{{ProductID: env.product.ID, Quantity: 1}},
	})
	if !errors.Is(err, storefront.ErrPaymentSetup) {
		t.Fatalf("Got error %v, want %v", err, storefront.ErrPaymentSetup)
	}

	orders, err := env.store.ListOrders(ctx, order.ListOpts{})
	if err != nil || len(orders) != 1 {
		t.Fatalf("ListOrders: %v (%d orders)", err, len(orders))
	}
	orderID := orders[0].ID

	env.gateway.setFailCreate(false)
	if err := env.engine.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() {
		if err := env.engine.Stop(); err != nil {
			t.Errorf("Stop: %v", err)
		}
	}()

	deadline := time.After(2 * time.Second)
	for {
		ord, err := env.engine.GetOrder(ctx, orderID)
		if err != nil {
			t.Fatalf("GetOrder: %v", err)
		}
		if ord.CheckoutSessionID != "" {
			return
		}

		select {
		case <-deadline:
			t.Fatal("repair worker never attached a payment session")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestProcessWebhook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ord := env.checkout(t, 2).Order
	payload := completedPayload(t, ord.ID.String(), 18000)

	t.Run("tampered signature", func(t *testing.T) {
		err := env.engine.ProcessWebhook(ctx, payload, "t=1700000000,v1=forged")
		if !errors.Is(err, payment.ErrInvalidSignature) {
			t.Fatalf("Got error %v, want %v", err, payment.ErrInvalidSignature)
		}

		stored, err := env.engine.GetOrder(ctx, ord.ID)
		if err != nil {
			t.Fatalf("GetOrder: %v", err)
		}
		if stored.PaymentStatus != order.PaymentStatusNotPaid {
			t.Errorf("rejected webhook mutated the order: %q", stored.PaymentStatus)
		}
	})

	t.Run("completed event marks order paid", func(t *testing.T) {
		if err := env.engine.ProcessWebhook(ctx, payload, goodSignature); err != nil {
			t.Fatalf("ProcessWebhook: %v", err)
		}

		stored, err := env.engine.GetOrder(ctx, ord.ID)
		if err != nil {
			t.Fatalf("GetOrder: %v", err)
		}
		if stored.PaymentStatus != order.PaymentStatusPaid {
			t.Errorf("PaymentStatus: got %q, want %q", stored.PaymentStatus, order.PaymentStatusPaid)
		}
		if stored.PaymentMethod != "card" {
			t.Errorf("PaymentMethod: got %q, want %q", stored.PaymentMethod, "card")
		}
		if want := types.USD(18000); !stored.TotalPrice.Equal(want) {
			t.Errorf("TotalPrice: got %v, want %v", stored.TotalPrice, want)
		}
	})

	t.Run("redelivery is idempotent", func(t *testing.T) {
		if err := env.engine.ProcessWebhook(ctx, payload, goodSignature); err != nil {
			t.Fatalf("ProcessWebhook redelivery: %v", err)
		}

		stored, err := env.engine.GetOrder(ctx, ord.ID)
		if err != nil {
			t.Fatalf("GetOrder: %v", err)
		}
		if stored.PaymentStatus != order.PaymentStatusPaid {
			t.Errorf("PaymentStatus after redelivery: got %q, want %q", stored.PaymentStatus, order.PaymentStatusPaid)
		}
	})

	t.Run("unknown event type is consumed", func(t *testing.T) {
		raw, err := json.Marshal(webhookPayload{ID: "evt_test_2", Type: "invoice.created"})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if err := env.engine.ProcessWebhook(ctx, raw, goodSignature); err != nil {
			t.Errorf("unknown event type should be acknowledged, got %v", err)
		}
	})

	t.Run("event matching no order is consumed", func(t *testing.T) {
		raw := completedPayload(t, id.NewOrderID().String(), 500)
		if err := env.engine.ProcessWebhook(ctx, raw, goodSignature); err != nil {
			t.Errorf("unmatched event should be acknowledged, got %v", err)
		}
	})

	t.Run("event with unparseable order id is consumed", func(t *testing.T) {
		raw := completedPayload(t, "not-an-order-id", 500)
		if err := env.engine.ProcessWebhook(ctx, raw, goodSignature); err != nil {
			t.Errorf("unparseable order id should be acknowledged, got %v", err)
		}
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ord := env.checkout(t, 1).Order

	updated, err := env.engine.UpdateOrderStatus(ctx, ord.ID, order.StatusProcessing)
	if err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	if updated.Status != order.StatusProcessing {
		t.Errorf("Status: got %q, want %q", updated.Status, order.StatusProcessing)
	}
	if updated.DeliveredAt != nil {
		t.Error("DeliveredAt set before delivery")
	}

	delivered, err := env.engine.UpdateOrderStatus(ctx, ord.ID, order.StatusDelivered)
	if err != nil {
		t.Fatalf("UpdateOrderStatus delivered: %v", err)
	}
	if delivered.DeliveredAt == nil {
		t.Error("DeliveredAt not stamped on delivery")
	}

	if _, err := env.engine.UpdateOrderStatus(ctx, ord.ID, order.Status("misplaced")); !errors.Is(err, storefront.ErrInvalidOrderStatus) {
		t.Errorf("Got error %v, want %v", err, storefront.ErrInvalidOrderStatus)
	}
}

func TestSalesStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.checkout(t, 2) // $180.00 after discount
	env.checkout(t, 1) // $90.00 after discount

	stats, err := env.engine.SalesStats(ctx)
	if err != nil {
		t.Fatalf("SalesStats: %v", err)
	}

	if stats.Count != 2 {
		t.Errorf("Count: got %d, want 2", stats.Count)
	}
	if want := types.USD(27000); !stats.Total.Equal(want) {
		t.Errorf("Total: got %v, want %v", stats.Total, want)
	}
	if want := types.USD(9000); !stats.Min.Equal(want) {
		t.Errorf("Min: got %v, want %v", stats.Min, want)
	}
	if want := types.USD(18000); !stats.Max.Equal(want) {
		t.Errorf("Max: got %v, want %v", stats.Max, want)
	}
	if want := types.USD(13500); !stats.Avg.Equal(want) {
		t.Errorf("Avg: got %v, want %v", stats.Avg, want)
	}
	if want := types.USD(27000); !stats.TodayTotal.Equal(want) {
		t.Errorf("TodayTotal: got %v, want %v", stats.TodayTotal, want)
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.engine.RegisterUser(ctx, "Imposter", "ADA@EXAMPLE.COM", "hunter22xx"); !errors.Is(err, storefront.ErrEmailTaken) {
		t.Errorf("duplicate email: got %v, want %v", err, storefront.ErrEmailTaken)
	}

	u, err := env.engine.AuthenticateUser(ctx, "Ada@Example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("AuthenticateUser: %v", err)
	}
	if u.ID != env.buyer.ID {
		t.Errorf("authenticated wrong user: got %v, want %v", u.ID, env.buyer.ID)
	}

	if _, err := env.engine.AuthenticateUser(ctx, "ada@example.com", "wrong password"); !errors.Is(err, storefront.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want %v", err, storefront.ErrInvalidCredentials)
	}
	if _, err := env.engine.AuthenticateUser(ctx, "nobody@example.com", "whatever123"); !errors.Is(err, storefront.ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want %v", err, storefront.ErrInvalidCredentials)
	}
}

func TestCreateCouponValidation(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	later := now.Add(48 * time.Hour)

	tests := []struct {
		name    string
		coupon  coupon.Coupon
		wantErr error
	}{
		{
			name:    "discount above 100",
			coupon:  coupon.Coupon{Code: "BIG", StartDate: future, EndDate: later, Discount: 101},
			wantErr: storefront.ErrInvalidDiscount,
		},
		{
			name:    "negative discount",
			coupon:  coupon.Coupon{Code: "NEG", StartDate: future, EndDate: later, Discount: -1},
			wantErr: storefront.ErrInvalidDiscount,
		},
		{
			name:    "start date in the past",
			coupon:  coupon.Coupon{Code: "LATE", StartDate: now.Add(-time.Hour), EndDate: later, Discount: 10},
			wantErr: storefront.ErrCouponDateInPast,
		},
		{
			name:    "end before start",
			coupon:  coupon.Coupon{Code: "BACKWARDS", StartDate: later, EndDate: future, Discount: 10},
			wantErr: storefront.ErrInvalidCouponWindow,
		},
		{
			name:    "duplicate code differing only in case",
			coupon:  coupon.Coupon{Code: "save10", StartDate: future, EndDate: later, Discount: 20},
			wantErr: storefront.ErrCouponExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			c := tt.coupon
			if err := env.engine.CreateCoupon(context.Background(), &c); !errors.Is(err, tt.wantErr) {
				t.Errorf("Got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReviews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := &review.Review{UserID: env.buyer.ID, ProductID: env.product.ID, Rating: 5, Comment: "great shoe"}
	if err := env.engine.AddReview(ctx, first); err != nil {
		t.Fatalf("AddReview: %v", err)
	}

	dup := &review.Review{UserID: env.buyer.ID, ProductID: env.product.ID, Rating: 3}
	if err := env.engine.AddReview(ctx, dup); !errors.Is(err, storefront.ErrReviewExists) {
		t.Errorf("duplicate review: got %v, want %v", err, storefront.ErrReviewExists)
	}

	bad := &review.Review{UserID: env.buyer.ID, ProductID: env.product.ID, Rating: 6}
	if err := env.engine.AddReview(ctx, bad); !errors.Is(err, storefront.ErrInvalidRating) {
		t.Errorf("out-of-range rating: got %v, want %v", err, storefront.ErrInvalidRating)
	}

	other, err := env.engine.RegisterUser(ctx, "Grace Hopper", "grace@example.com", "cobol forever")
	if err != nil {
		t.Fatalf("register second reviewer: %v", err)
	}
	second := &review.Review{UserID: other.ID, ProductID: env.product.ID, Rating: 4, Comment: "solid"}
	if err := env.engine.AddReview(ctx, second); err != nil {
		t.Fatalf("AddReview second: %v", err)
	}

	avg, err := env.engine.ProductAverageRating(ctx, env.product.ID)
	if err != nil {
		t.Fatalf("ProductAverageRating: %v", err)
	}
	if avg != 4.5 {
		t.Errorf("average rating: got %v, want 4.5", avg)
	}

	reviews, err := env.engine.ListProductReviews(ctx, env.product.ID)
	if err != nil {
		t.Fatalf("ListProductReviews: %v", err)
	}
	if len(reviews) != 2 {
		t.Errorf("review count: got %d, want 2", len(reviews))
	}
}

func TestCatalogNameUniqueness(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.engine.CreateCategory(ctx, &catalog.Category{Name: "Shoes"}); !errors.Is(err, storefront.ErrCategoryExists) {
		t.Errorf("duplicate category: got %v, want %v", err, storefront.ErrCategoryExists)
	}
	if err := env.engine.CreateBrand(ctx, &catalog.Brand{Name: "ACME"}); !errors.Is(err, storefront.ErrBrandExists) {
		t.Errorf("duplicate brand: got %v, want %v", err, storefront.ErrBrandExists)
	}

	dup := &catalog.Product{Name: "Trail Runner", Brand: "acme", Category: "shoes", Price: types.USD(100), TotalQty: 1}
	if err := env.engine.CreateProduct(ctx, dup); !errors.Is(err, storefront.ErrProductExists) {
		t.Errorf("duplicate product: got %v, want %v", err, storefront.ErrProductExists)
	}

	orphan := &catalog.Product{Name: "Road Runner", Brand: "acme", Category: "hats", Price: types.USD(100), TotalQty: 1}
	if err := env.engine.CreateProduct(ctx, orphan); !errors.Is(err, storefront.ErrCategoryNotFound) {
		t.Errorf("unknown category: got %v, want %v", err, storefront.ErrCategoryNotFound)
	}
}

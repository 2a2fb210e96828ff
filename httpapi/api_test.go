package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harborlane/storefront"
	"github.com/harborlane/storefront/auth"
	"github.com/harborlane/storefront/catalog"
	"github.com/harborlane/storefront/coupon"
	"github.com/harborlane/storefront/httpapi"
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/order"
	"github.com/harborlane/storefront/payment"
	"github.com/harborlane/storefront/store/memory"
	"github.com/harborlane/storefront/types"
	"github.com/harborlane/storefront/user"
)

const goodSignature = "t=1700000000,v1=valid"

type fakeGateway struct{}

func (fakeGateway) CreateCheckoutSession(_ context.Context, _ *payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	return &payment.CheckoutSession{
		ID:              "cs_test_1",
		URL:             "https://checkout.example.com/pay/cs_test_1",
		PaymentIntentID: "pi_test_1",
	}, nil
}

func (fakeGateway) ParseWebhook(payload []byte, signature string) (*payment.Event, error) {
	if signature != goodSignature {
		return nil, payment.ErrInvalidSignature
	}

	var p struct {
		ID      string `json:"id"`
		Type    string `json:"type"`
		OrderID string `json:"order_id"`
		Amount  int64  `json:"amount"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}

	return &payment.Event{
		ID:            p.ID,
		Type:          payment.EventType(p.Type),
		OrderID:       p.OrderID,
		PaymentStatus: string(order.PaymentStatusPaid),
		PaymentMethod: "card",
		AmountTotal:   types.USD(p.Amount),
	}, nil
}

type testServer struct {
	srv        *httptest.Server
	store      *memory.Store
	engine     *storefront.Storefront
	buyerToken string
	adminToken string
	buyer      *user.User
	product    *catalog.Product
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	st := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := storefront.New(st, fakeGateway{}, storefront.WithLogger(logger))
	tokens := auth.NewTokens([]byte("test-secret"), time.Hour)

	buyer, err := engine.RegisterUser(ctx, "Ada Lovelace", "ada@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("register buyer: %v", err)
	}
	if _, err := engine.UpdateShippingAddress(ctx, buyer.ID, user.Address{
		FirstName: "Ada", LastName: "Lovelace",
		Street: "12 Analytical Way", City: "London", PostalCode: "EC1A 1BB", Country: "GB",
	}); err != nil {
		t.Fatalf("set shipping address: %v", err)
	}

	admin, err := engine.RegisterUser(ctx, "Store Admin", "admin@example.com", "keep it secret")
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}
	admin.IsAdmin = true
	if err := st.UpdateUser(ctx, admin); err != nil {
		t.Fatalf("promote admin: %v", err)
	}

	if err := engine.CreateCategory(ctx, &catalog.Category{Name: "shoes"}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if err := engine.CreateBrand(ctx, &catalog.Brand{Name: "acme"}); err != nil {
		t.Fatalf("create brand: %v", err)
	}
	product := &catalog.Product{
		Name: "Trail Runner", Brand: "acme", Category: "shoes",
		Price: types.USD(10000), TotalQty: 10,
	}
	if err := engine.CreateProduct(ctx, product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	now := time.Now()
	if err := engine.CreateCoupon(ctx, &coupon.Coupon{
		Code: "SAVE10", StartDate: now.Add(time.Minute), EndDate: now.Add(48 * time.Hour), Discount: 10,
	}); err != nil {
		t.Fatalf("create coupon: %v", err)
	}

	buyerToken, err := tokens.Issue(buyer.ID.String())
	if err != nil {
		t.Fatalf("issue buyer token: %v", err)
	}
	adminToken, err := tokens.Issue(admin.ID.String())
	if err != nil {
		t.Fatalf("issue admin token: %v", err)
	}

	srv := httptest.NewServer(httpapi.New(engine, tokens, logger).Router())
	t.Cleanup(srv.Close)

	return &testServer{
		srv:        srv,
		store:      st,
		engine:     engine,
		buyerToken: buyerToken,
		adminToken: adminToken,
		buyer:      buyer,
		product:    product,
	}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Status  string          `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}

	var out T
	if err := json.Unmarshal(envelope.Data, &out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/api/v1/users/register", "", map[string]string{
		"fullname": "Grace Hopper",
		"email":    "grace@example.com",
		"password": "cobol forever",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: got %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	resp.Body.Close()

	resp = ts.do(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email":    "grace@example.com",
		"password": "cobol forever",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: got %d, want %d", resp.StatusCode, http.StatusOK)
	}
	login := decodeData[struct {
		Token string `json:"token"`
	}](t, resp)
	if login.Token == "" {
		t.Error("login returned no token")
	}

	resp = ts.do(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email":    "grace@example.com",
		"password": "wrong password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login status: got %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	resp.Body.Close()
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"fullname": "X", "password": "long enough"}},
		{"malformed email", map[string]string{"fullname": "X", "email": "not-an-email", "password": "long enough"}},
		{"short password", map[string]string{"fullname": "X", "email": "x@example.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(t, http.MethodPost, "/api/v1/users/register", "", tt.body)
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusBadRequest)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t)

	t.Run("no token", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/v1/users/profile", "", nil)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusUnauthorized)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/v1/users/profile", "not.a.jwt", nil)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusUnauthorized)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/v1/users/profile", ts.buyerToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status: got %d, want %d", resp.StatusCode, http.StatusOK)
		}
		profile := decodeData[struct {
			Email string `json:"email"`
		}](t, resp)
		if profile.Email != "ada@example.com" {
			t.Errorf("profile email: got %q, want %q", profile.Email, "ada@example.com")
		}
	})

	t.Run("non-admin on admin route", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/v1/orders/", ts.buyerToken, nil)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusForbidden)
		}
	})

	t.Run("admin on admin route", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/v1/orders/", ts.adminToken, nil)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})
}

func TestCreateOrderEndpoint(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{
		"items": []map[string]any{
			{"product_id": ts.product.ID.String(), "quantity": 2},
		},
	}

	resp := ts.do(t, http.MethodPost, "/api/v1/orders/?coupon=SAVE10", ts.buyerToken, body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status: got %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	checkout := decodeData[struct {
		Order       *order.Order `json:"order"`
		CheckoutURL string       `json:"checkout_url"`
	}](t, resp)
	if checkout.CheckoutURL == "" {
		t.Error("checkout URL is empty")
	}
	if want := types.USD(18000); !checkout.Order.TotalPrice.Equal(want) {
		t.Errorf("TotalPrice: got %v, want %v", checkout.Order.TotalPrice, want)
	}

	t.Run("unknown coupon maps to 404", func(t *testing.T) {
		resp := ts.do(t, http.MethodPost, "/api/v1/orders/?coupon=NOPE", ts.buyerToken, body)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusNotFound)
		}
	})

	t.Run("owner can fetch the order", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/v1/orders/"+checkout.Order.ID.String(), ts.buyerToken, nil)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("stranger cannot fetch the order", func(t *testing.T) {
		stranger, err := ts.engine.RegisterUser(context.Background(), "Nosy Parker", "nosy@example.com", "peeking1234")
		if err != nil {
			t.Fatalf("register stranger: %v", err)
		}
		strangerToken, err := auth.NewTokens([]byte("test-secret"), time.Hour).Issue(stranger.ID.String())
		if err != nil {
			t.Fatalf("issue stranger token: %v", err)
		}

		resp := ts.do(t, http.MethodGet, "/api/v1/orders/"+checkout.Order.ID.String(), strangerToken, nil)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusForbidden)
		}
	})
}

func TestWebhookEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	res, err := ts.engine.CreateOrder(ctx, &storefront.CreateOrderRequest{
		UserID:     ts.buyer.ID,
		CouponCode: "SAVE10",
		Items:      []storefront.OrderItem{{ProductID: ts.product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	payload := fmt.Sprintf(`{"id":"evt_1","type":"checkout.session.completed","order_id":%q,"amount":9000}`, res.Order.ID)

	post := func(t *testing.T, signature string) *http.Response {
		t.Helper()
		req, err := http.NewRequest(http.MethodPost, ts.srv.URL+"/webhook", bytes.NewReader([]byte(payload)))
		if err != nil {
			t.Fatalf("build request: %v", err)
		}
		req.Header.Set("Stripe-Signature", signature)

		resp, err := ts.srv.Client().Do(req)
		if err != nil {
			t.Fatalf("post webhook: %v", err)
		}
		return resp
	}

	t.Run("bad signature", func(t *testing.T) {
		resp := post(t, "t=1700000000,v1=forged")
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}

		ord, err := ts.engine.GetOrder(ctx, res.Order.ID)
		if err != nil {
			t.Fatalf("GetOrder: %v", err)
		}
		if ord.PaymentStatus != order.PaymentStatusNotPaid {
			t.Errorf("rejected webhook mutated the order: %q", ord.PaymentStatus)
		}
	})

	t.Run("valid signature", func(t *testing.T) {
		resp := post(t, goodSignature)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusOK)
		}

		ord, err := ts.engine.GetOrder(ctx, res.Order.ID)
		if err != nil {
			t.Fatalf("GetOrder: %v", err)
		}
		if ord.PaymentStatus != order.PaymentStatusPaid {
			t.Errorf("PaymentStatus: got %q, want %q", ord.PaymentStatus, order.PaymentStatusPaid)
		}
	})
}

func TestCatalogEndpoints(t *testing.T) {
	ts := newTestServer(t)

	t.Run("list products is public", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/v1/products/", "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status: got %d, want %d", resp.StatusCode, http.StatusOK)
		}
		products := decodeData[[]*catalog.Product](t, resp)
		if len(products) != 1 {
			t.Errorf("product count: got %d, want 1", len(products))
		}
	})

	t.Run("create product requires admin", func(t *testing.T) {
		body := map[string]any{
			"name": "Road Runner", "description": "Fast road shoe",
			"brand": "acme", "category": "shoes",
			"price": 5000, "currency": "usd", "total_qty": 3,
		}

		resp := ts.do(t, http.MethodPost, "/api/v1/products/", ts.buyerToken, body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("buyer create status: got %d, want %d", resp.StatusCode, http.StatusForbidden)
		}

		resp = ts.do(t, http.MethodPost, "/api/v1/products/", ts.adminToken, body)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("admin create status: got %d, want %d", resp.StatusCode, http.StatusCreated)
		}
	})

	t.Run("unknown product is 404", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/v1/products/"+id.NewProductID().String(), "", nil)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusNotFound)
		}
	})
}

func TestSalesStatsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	t.Run("requires a token", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/v1/orders/sales/stats", "", nil)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusUnauthorized)
		}
	})

	// Sales stats are readable by any signed-in account, not only admins.
	t.Run("buyer can read stats", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/v1/orders/sales/stats", ts.buyerToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status: got %d, want %d", resp.StatusCode, http.StatusOK)
		}
		stats := decodeData[order.Stats](t, resp)
		if stats.Count != 0 {
			t.Errorf("order count: got %d, want 0", stats.Count)
		}
	})
}

func TestListUsersEndpoint(t *testing.T) {
	ts := newTestServer(t)

	t.Run("buyer is rejected", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/v1/users/allusers", ts.buyerToken, nil)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusForbidden)
		}
	})

	t.Run("admin lists every account", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/v1/users/allusers", ts.adminToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status: got %d, want %d", resp.StatusCode, http.StatusOK)
		}
		users := decodeData[[]*user.User](t, resp)
		if len(users) != 2 {
			t.Errorf("user count: got %d, want 2", len(users))
		}
	})
}

func TestListImagesEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	img := &catalog.Image{
		Entity: types.NewEntity(),
		ID:     id.NewImageID(),
		Key:    "products/test/cover.jpg",
		URL:    "https://cdn.example.com/products/test/cover.jpg",
	}
	if err := ts.store.CreateImage(ctx, img); err != nil {
		t.Fatalf("CreateImage: %v", err)
	}

	t.Run("requires a token", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/v1/images/", "", nil)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status: got %d, want %d", resp.StatusCode, http.StatusUnauthorized)
		}
	})

	t.Run("buyer lists images", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/api/v1/images/", ts.buyerToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status: got %d, want %d", resp.StatusCode, http.StatusOK)
		}
		images := decodeData[[]*catalog.Image](t, resp)
		if len(images) != 1 || images[0].ID != img.ID {
			t.Errorf("images: got %d, want the seeded one", len(images))
		}
	})
}

package storefront_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/harborlane/storefront"
	"github.com/harborlane/storefront/catalog"
	"github.com/harborlane/storefront/coupon"
	"github.com/harborlane/storefront/store/memory"
	"github.com/harborlane/storefront/types"
	"github.com/harborlane/storefront/user"
)

// TestDocumentationExamples verifies that the package documentation's
// core flow works end to end against the memory store.
func TestDocumentationExamples(t *testing.T) {
	t.Run("QuickStartExample", func(t *testing.T) {
		st := memory.New()

		engine := storefront.New(st, &fakeGateway{},
			storefront.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
			storefront.WithCheckoutURLs("https://shop.example.com/success", "https://shop.example.com/cancel"),
		)

		ctx := context.Background()
		if err := engine.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer func() {
			if err := engine.Stop(); err != nil {
				t.Errorf("Stop: %v", err)
			}
		}()

		// Register a buyer and give them a shipping address.
		buyer, err := engine.RegisterUser(ctx, "Ada Lovelace", "ada@example.com", "correct horse battery")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := engine.UpdateShippingAddress(ctx, buyer.ID, user.Address{
			FirstName: "Ada", LastName: "Lovelace",
			Street: "12 Analytical Way", City: "London", PostalCode: "EC1A 1BB", Country: "GB",
		}); err != nil {
			t.Fatal(err)
		}

		// Build a small catalog.
		if err := engine.CreateCategory(ctx, &catalog.Category{Name: "shoes"}); err != nil {
			t.Fatal(err)
		}
		if err := engine.CreateBrand(ctx, &catalog.Brand{Name: "acme"}); err != nil {
			t.Fatal(err)
		}
		product := &catalog.Product{
			Name:     "Trail Runner",
			Brand:    "acme",
			Category: "shoes",
			Price:    types.USD(10000),
			TotalQty: 25,
		}
		if err := engine.CreateProduct(ctx, product); err != nil {
			t.Fatal(err)
		}

		now := time.Now()
		if err := engine.CreateCoupon(ctx, &coupon.Coupon{
			Code:      "LAUNCH20",
			StartDate: now.Add(time.Minute),
			EndDate:   now.Add(30 * 24 * time.Hour),
			Discount:  20,
		}); err != nil {
			t.Fatal(err)
		}

		// Checkout: price from the catalog, discount from the coupon,
		// payment through the hosted session.
		res, err := engine.CreateOrder(ctx, &storefront.CreateOrderRequest{
			UserID:     buyer.ID,
			CouponCode: "LAUNCH20",
			Items:      []storefront.OrderItem{{ProductID: product.ID, Quantity: 1}},
		})
		if err != nil {
			t.Fatal(err)
		}

		if res.CheckoutURL == "" {
			t.Error("expected a hosted checkout URL")
		}
		if want := types.USD(8000); !res.Order.TotalPrice.Equal(want) {
			t.Errorf("TotalPrice: got %v, want %v", res.Order.TotalPrice, want)
		}

		// The completed-checkout webhook settles the order.
		payload := completedPayload(t, res.Order.ID.String(), 8000)
		if err := engine.ProcessWebhook(ctx, payload, goodSignature); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("MoneyExample", func(t *testing.T) {
		price := types.USD(4900)
		if price.String() != "$49.00" {
			t.Errorf("Got %s, want $49.00", price.String())
		}
		if got := price.Multiply(3); !got.Equal(types.USD(14700)) {
			t.Errorf("Got %v, want $147.00", got)
		}
	})
}

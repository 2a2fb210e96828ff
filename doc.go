// Package storefront provides a composable e-commerce engine for Go applications.
//
// Storefront is designed as a library, not a service. Import it directly into
// your Go application and expose whatever surface you need on top. It provides:
//
//   - Checkout with server-side pricing from the live catalog
//   - Mandatory percentage coupons with validity windows
//   - Atomic inventory adjustment with a configurable oversell policy
//   - Hosted payment sessions via a pluggable gateway (Stripe built-in)
//   - Idempotent webhook reconciliation of payment outcomes
//   - Catalog management: products, categories, brands, colors, images
//   - Accounts with bcrypt credentials and shipping profiles
//   - One-per-user product reviews
//   - Sales statistics across all orders plus today's revenue
//
// # Quick Start
//
// Create a storefront instance with your preferred store and gateway:
//
//	import (
//	    "github.com/harborlane/storefront"
//	    "github.com/harborlane/storefront/payment/stripe"
//	    storemongo "github.com/harborlane/storefront/store/mongo"
//	)
//
//	// Initialize store and gateway
//	st, err := storemongo.New(ctx, mongoURI, "storefront")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gw := stripe.New(apiKey, webhookSecret)
//
//	// Create the engine
//	sf := storefront.New(st, gw)
//
//	// Start it (runs migrations and background workers)
//	if err := sf.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer sf.Stop()
//
// # Core Flow
//
// Checkout prices the requested items from the live catalog, applies the
// coupon, persists the order and opens a hosted payment page:
//
//	result, err := sf.CreateOrder(ctx, &storefront.CreateOrderRequest{
//	    UserID:     userID,
//	    CouponCode: "SAVE10",
//	    Items:      []storefront.OrderItem{{ProductID: pid, Quantity: 2}},
//	})
//	// redirect the buyer to result.CheckoutURL
//
// The gateway reports the outcome asynchronously. Feed the raw webhook
// body and signature straight into the engine:
//
//	err := sf.ProcessWebhook(ctx, rawBody, r.Header.Get("Stripe-Signature"))
//
// Reconciliation overwrites the order's payment fields with the
// gateway-reported values, so redelivered events are harmless.
//
// # Money
//
// All monetary calculations use integer arithmetic to avoid floating-point
// precision issues. The Money type represents amounts in the smallest
// currency unit (cents for USD, pence for GBP, etc), so a 10% discount on
// $100.00 is exactly $90.00.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	prod_01h2xcejqtf2nbrexx3vqjhp41  // Product ID
//	ord_01h2xcejqtf2nbrexx3vqjhp41   // Order ID
//	cpn_01h455vb4pex5vsknk084sn02q   // Coupon ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package storefront

// Package httpapi exposes the Storefront engine as a JSON REST API.
//
// All responses share a {status, message, data} envelope. Mutating
// catalog and coupon routes require an admin account; checkout and
// profile routes require any authenticated account; the webhook route
// is authenticated by its payload signature instead of a bearer token.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/harborlane/storefront"
	"github.com/harborlane/storefront/auth"
)

// API holds the handler dependencies.
type API struct {
	engine   *storefront.Storefront
	tokens   *auth.Tokens
	validate *validator.Validate
	logger   *slog.Logger
}

// New creates the API handler set.
func New(engine *storefront.Storefront, tokens *auth.Tokens, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		engine:   engine,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger,
	}
}

// Router builds the HTTP router.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(a.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", a.handleRegister)
			r.Post("/login", a.handleLogin)

			r.Group(func(r chi.Router) {
				r.Use(a.authenticate)
				r.Get("/profile", a.handleProfile)
				r.Put("/update/shipping", a.handleUpdateShipping)
			})

			r.Group(func(r chi.Router) {
				r.Use(a.authenticate, a.requireAdmin)
				r.Get("/allusers", a.handleListUsers)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", a.handleListProducts)
			r.Get("/{productID}", a.handleGetProduct)

			r.Group(func(r chi.Router) {
				r.Use(a.authenticate, a.requireAdmin)
				r.Post("/", a.handleCreateProduct)
				r.Put("/{productID}", a.handleUpdateProduct)
				r.Delete("/{productID}/delete", a.handleDeleteProduct)
				r.Post("/{productID}/images", a.handleUploadProductImage)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", a.handleListCategories)
			r.Get("/{name}", a.handleGetCategory)

			r.Group(func(r chi.Router) {
				r.Use(a.authenticate, a.requireAdmin)
				r.Post("/", a.handleCreateCategory)
				r.Put("/{name}", a.handleUpdateCategory)
				r.Delete("/{name}/delete", a.handleDeleteCategory)
			})
		})

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", a.handleListBrands)
			r.Get("/{name}", a.handleGetBrand)

			r.Group(func(r chi.Router) {
				r.Use(a.authenticate, a.requireAdmin)
				r.Post("/", a.handleCreateBrand)
				r.Put("/{name}", a.handleUpdateBrand)
				r.Delete("/{name}/delete", a.handleDeleteBrand)
			})
		})

		r.Route("/colors", func(r chi.Router) {
			r.Get("/", a.handleListColors)
			r.Get("/{name}", a.handleGetColor)

			r.Group(func(r chi.Router) {
				r.Use(a.authenticate, a.requireAdmin)
				r.Post("/", a.handleCreateColor)
				r.Put("/{name}", a.handleUpdateColor)
				r.Delete("/{name}/delete", a.handleDeleteColor)
			})
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", a.handleListCoupons)
			r.Get("/single", a.handleGetCouponByCode)

			r.Group(func(r chi.Router) {
				r.Use(a.authenticate, a.requireAdmin)
				r.Post("/", a.handleCreateCoupon)
				r.Put("/update/{couponID}", a.handleUpdateCoupon)
				r.Delete("/delete/{couponID}", a.handleDeleteCoupon)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/{productID}", a.handleListProductReviews)

			r.Group(func(r chi.Router) {
				r.Use(a.authenticate)
				r.Post("/{productID}", a.handleAddReview)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(a.authenticate)
				r.Post("/", a.handleCreateOrder)
				r.Get("/sales/stats", a.handleSalesStats)
				r.Get("/{orderID}", a.handleGetOrder)
			})

			r.Group(func(r chi.Router) {
				r.Use(a.authenticate, a.requireAdmin)
				r.Get("/", a.handleListOrders)
				r.Put("/update/{orderID}", a.handleUpdateOrderStatus)
			})
		})

		r.Route("/images", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(a.authenticate)
				r.Get("/", a.handleListImages)
			})

			r.Group(func(r chi.Router) {
				r.Use(a.authenticate, a.requireAdmin)
				r.Delete("/{imageID}/delete", a.handleDeleteImage)
			})
		})
	})

	// Webhook delivery is authenticated by signature, never by token.
	r.Post("/webhook", a.handleWebhook)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

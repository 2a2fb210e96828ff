// Package store declares the unified persistence contract for all
// Storefront entities.
package store

import (
	"context"
	"time"

	"github.com/harborlane/storefront/catalog"
	"github.com/harborlane/storefront/coupon"
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/order"
	"github.com/harborlane/storefront/review"
	"github.com/harborlane/storefront/user"
)

// Store is the unified storage interface for all Storefront entities.
// Instead of embedding the per-package sub-interfaces, all methods are
// declared explicitly to avoid naming conflicts.
//
// No cross-document transactionality is promised: order creation's
// writes (order insert, inventory adjustments, user update) are not
// atomic as a unit. Per-document operations that need atomicity
// (AdjustInventory, ApplyPaymentResult) carry that requirement in their
// own contracts.
type Store interface {
	// User methods
	CreateUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, userID id.UserID) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	ListUsers(ctx context.Context) ([]*user.User, error)
	UpdateUser(ctx context.Context, u *user.User) error
	AppendUserOrder(ctx context.Context, userID id.UserID, orderID id.OrderID) error

	// Coupon methods
	CreateCoupon(ctx context.Context, c *coupon.Coupon) error
	GetCoupon(ctx context.Context, couponID id.CouponID) (*coupon.Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (*coupon.Coupon, error)
	ListCoupons(ctx context.Context, opts coupon.ListOpts) ([]*coupon.Coupon, error)
	UpdateCoupon(ctx context.Context, c *coupon.Coupon) error
	DeleteCoupon(ctx context.Context, couponID id.CouponID) error

	// Product methods
	CreateProduct(ctx context.Context, p *catalog.Product) error
	GetProduct(ctx context.Context, productID id.ProductID) (*catalog.Product, error)
	GetProductByName(ctx context.Context, name string) (*catalog.Product, error)
	ListProducts(ctx context.Context, opts catalog.ProductListOpts) ([]*catalog.Product, error)
	UpdateProduct(ctx context.Context, p *catalog.Product) error
	DeleteProduct(ctx context.Context, productID id.ProductID) error
	AdjustInventory(ctx context.Context, productID id.ProductID, qty int64, allowNegative bool) error
	AppendProductImage(ctx context.Context, productID id.ProductID, ref catalog.ImageRef) error
	AppendProductReview(ctx context.Context, productID id.ProductID, reviewID id.ReviewID) error

	// Category methods
	CreateCategory(ctx context.Context, c *catalog.Category) error
	GetCategoryByName(ctx context.Context, name string) (*catalog.Category, error)
	ListCategories(ctx context.Context) ([]*catalog.Category, error)
	UpdateCategory(ctx context.Context, c *catalog.Category) error
	DeleteCategory(ctx context.Context, categoryID id.CategoryID) error

	// Brand methods
	CreateBrand(ctx context.Context, b *catalog.Brand) error
	GetBrandByName(ctx context.Context, name string) (*catalog.Brand, error)
	ListBrands(ctx context.Context) ([]*catalog.Brand, error)
	UpdateBrand(ctx context.Context, b *catalog.Brand) error
	DeleteBrand(ctx context.Context, brandID id.BrandID) error

	// Color methods
	CreateColor(ctx context.Context, c *catalog.Color) error
	GetColorByName(ctx context.Context, name string) (*catalog.Color, error)
	ListColors(ctx context.Context) ([]*catalog.Color, error)
	UpdateColor(ctx context.Context, c *catalog.Color) error
	DeleteColor(ctx context.Context, colorID id.ColorID) error

	// Image methods
	CreateImage(ctx context.Context, img *catalog.Image) error
	GetImage(ctx context.Context, imageID id.ImageID) (*catalog.Image, error)
	ListImages(ctx context.Context) ([]*catalog.Image, error)
	DeleteImage(ctx context.Context, imageID id.ImageID) error

	// Order methods
	CreateOrder(ctx context.Context, o *order.Order) error
	GetOrder(ctx context.Context, orderID id.OrderID) (*order.Order, error)
	DeleteOrder(ctx context.Context, orderID id.OrderID) error
	ListOrders(ctx context.Context, opts order.ListOpts) ([]*order.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID id.OrderID, status order.Status, deliveredAt *time.Time) error
	SetPaymentSession(ctx context.Context, orderID id.OrderID, sessionID, paymentIntentID string) error
	ApplyPaymentResult(ctx context.Context, orderID id.OrderID, res order.PaymentResult) error
	ListOrdersAwaitingPaymentSession(ctx context.Context, createdBefore time.Time) ([]*order.Order, error)
	OrderStats(ctx context.Context, dayStart time.Time) (*order.Stats, error)

	// Review methods
	CreateReview(ctx context.Context, r *review.Review) error
	GetReview(ctx context.Context, reviewID id.ReviewID) (*review.Review, error)
	GetReviewByUserAndProduct(ctx context.Context, userID id.UserID, productID id.ProductID) (*review.Review, error)
	ListProductReviews(ctx context.Context, productID id.ProductID) ([]*review.Review, error)
	UpdateReview(ctx context.Context, r *review.Review) error
	DeleteReview(ctx context.Context, reviewID id.ReviewID) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

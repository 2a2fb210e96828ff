// Package memory provides an in-memory Store for tests and local
// development. All data is lost on process exit.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/harborlane/storefront"
	"github.com/harborlane/storefront/catalog"
	"github.com/harborlane/storefront/coupon"
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/order"
	"github.com/harborlane/storefront/review"
	"github.com/harborlane/storefront/types"
	"github.com/harborlane/storefront/user"
)

type Store struct {
	mu sync.RWMutex

	users      map[string]*user.User
	coupons    map[string]*coupon.Coupon
	products   map[string]*catalog.Product
	categories map[string]*catalog.Category
	brands     map[string]*catalog.Brand
	colors     map[string]*catalog.Color
	images     map[string]*catalog.Image
	orders     map[string]*order.Order
	reviews    map[string]*review.Review
}

func New() *Store {
	return &Store{
		users:      make(map[string]*user.User),
		coupons:    make(map[string]*coupon.Coupon),
		products:   make(map[string]*catalog.Product),
		categories: make(map[string]*catalog.Category),
		brands:     make(map[string]*catalog.Brand),
		colors:     make(map[string]*catalog.Color),
		images:     make(map[string]*catalog.Image),
		orders:     make(map[string]*order.Order),
		reviews:    make(map[string]*review.Review),
	}
}

// User Store implementation
func (s *Store) CreateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return storefront.ErrEmailTaken
		}
	}
	s.users[u.ID.String()] = u
	return nil
}

func (s *Store) GetUser(_ context.Context, userID id.UserID) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.users[userID.String()]; ok {
		return u, nil
	}
	return nil, storefront.ErrUserNotFound
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, storefront.ErrUserNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		result = append(result, u)
	}
	return result, nil
}

func (s *Store) UpdateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.ID.String()]; !exists {
		return storefront.ErrUserNotFound
	}
	s.users[u.ID.String()] = u
	return nil
}

func (s *Store) AppendUserOrder(_ context.Context, userID id.UserID, orderID id.OrderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[userID.String()]; ok {
		u.Orders = append(u.Orders, orderID)
		return nil
	}
	return storefront.ErrUserNotFound
}

// Coupon Store implementation
func (s *Store) CreateCoupon(_ context.Context, c *coupon.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.coupons {
		if existing.Code == c.Code {
			return storefront.ErrCouponExists
		}
	}
	s.coupons[c.ID.String()] = c
	return nil
}

func (s *Store) GetCoupon(_ context.Context, couponID id.CouponID) (*coupon.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.coupons[couponID.String()]; ok {
		return c, nil
	}
	return nil, storefront.ErrCouponNotFound
}

func (s *Store) GetCouponByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.coupons {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, storefront.ErrCouponNotFound
}

func (s *Store) ListCoupons(_ context.Context, opts coupon.ListOpts) ([]*coupon.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*coupon.Coupon, 0, len(s.coupons))
	for _, c := range s.coupons {
		result = append(result, c)
	}
	return window(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateCoupon(_ context.Context, c *coupon.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.coupons[c.ID.String()]; !exists {
		return storefront.ErrCouponNotFound
	}
	s.coupons[c.ID.String()] = c
	return nil
}

func (s *Store) DeleteCoupon(_ context.Context, couponID id.CouponID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.coupons[couponID.String()]; !exists {
		return storefront.ErrCouponNotFound
	}
	delete(s.coupons, couponID.String())
	return nil
}

// Product Store implementation
func (s *Store) CreateProduct(_ context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.products {
		if existing.Name == p.Name {
			return storefront.ErrProductExists
		}
	}
	s.products[p.ID.String()] = p
	return nil
}

func (s *Store) GetProduct(_ context.Context, productID id.ProductID) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.products[productID.String()]; ok {
		return p, nil
	}
	return nil, storefront.ErrProductNotFound
}

func (s *Store) GetProductByName(_ context.Context, name string) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, storefront.ErrProductNotFound
}

func (s *Store) ListProducts(_ context.Context, opts catalog.ProductListOpts) ([]*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*catalog.Product, 0)
	for _, p := range s.products {
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		if opts.Brand != "" && p.Brand != opts.Brand {
			continue
		}
		if opts.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(opts.Name)) {
			continue
		}
		result = append(result, p)
	}
	return window(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateProduct(_ context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID.String()]; !exists {
		return storefront.ErrProductNotFound
	}
	s.products[p.ID.String()] = p
	return nil
}

func (s *Store) DeleteProduct(_ context.Context, productID id.ProductID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[productID.String()]; !exists {
		return storefront.ErrProductNotFound
	}
	delete(s.products, productID.String())
	return nil
}

// AdjustInventory records qty units sold under the write lock, so two
// concurrent checkouts cannot both pass the stock check.
func (s *Store) AdjustInventory(_ context.Context, productID id.ProductID, qty int64, allowNegative bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID.String()]
	if !ok {
		return storefront.ErrProductNotFound
	}
	if !allowNegative && p.QtyLeft() < qty {
		return storefront.ErrInsufficientStock
	}
	p.TotalSold += qty
	return nil
}

func (s *Store) AppendProductImage(_ context.Context, productID id.ProductID, ref catalog.ImageRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.products[productID.String()]; ok {
		p.Images = append(p.Images, ref)
		return nil
	}
	return storefront.ErrProductNotFound
}

func (s *Store) AppendProductReview(_ context.Context, productID id.ProductID, reviewID id.ReviewID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.products[productID.String()]; ok {
		p.Reviews = append(p.Reviews, reviewID)
		return nil
	}
	return storefront.ErrProductNotFound
}

// Category Store implementation
func (s *Store) CreateCategory(_ context.Context, c *catalog.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if existing.Name == c.Name {
			return storefront.ErrCategoryExists
		}
	}
	s.categories[c.ID.String()] = c
	return nil
}

func (s *Store) GetCategoryByName(_ context.Context, name string) (*catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, storefront.ErrCategoryNotFound
}

func (s *Store) ListCategories(_ context.Context) ([]*catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*catalog.Category, 0, len(s.categories))
	for _, c := range s.categories {
		result = append(result, c)
	}
	return result, nil
}

func (s *Store) UpdateCategory(_ context.Context, c *catalog.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[c.ID.String()]; !exists {
		return storefront.ErrCategoryNotFound
	}
	s.categories[c.ID.String()] = c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, categoryID id.CategoryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[categoryID.String()]; !exists {
		return storefront.ErrCategoryNotFound
	}
	delete(s.categories, categoryID.String())
	return nil
}

// Brand Store implementation
func (s *Store) CreateBrand(_ context.Context, b *catalog.Brand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.brands {
		if existing.Name == b.Name {
			return storefront.ErrBrandExists
		}
	}
	s.brands[b.ID.String()] = b
	return nil
}

func (s *Store) GetBrandByName(_ context.Context, name string) (*catalog.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.brands {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, storefront.ErrBrandNotFound
}

func (s *Store) ListBrands(_ context.Context) ([]*catalog.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*catalog.Brand, 0, len(s.brands))
	for _, b := range s.brands {
		result = append(result, b)
	}
	return result, nil
}

func (s *Store) UpdateBrand(_ context.Context, b *catalog.Brand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.brands[b.ID.String()]; !exists {
		return storefront.ErrBrandNotFound
	}
	s.brands[b.ID.String()] = b
	return nil
}

func (s *Store) DeleteBrand(_ context.Context, brandID id.BrandID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.brands[brandID.String()]; !exists {
		return storefront.ErrBrandNotFound
	}
	delete(s.brands, brandID.String())
	return nil
}

// Color Store implementation
func (s *Store) CreateColor(_ context.Context, c *catalog.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.colors {
		if existing.Name == c.Name {
			return storefront.ErrColorExists
		}
	}
	s.colors[c.ID.String()] = c
	return nil
}

func (s *Store) GetColorByName(_ context.Context, name string) (*catalog.Color, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.colors {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, storefront.ErrColorNotFound
}

func (s *Store) ListColors(_ context.Context) ([]*catalog.Color, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*catalog.Color, 0, len(s.colors))
	for _, c := range s.colors {
		result = append(result, c)
	}
	return result, nil
}

func (s *Store) UpdateColor(_ context.Context, c *catalog.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.colors[c.ID.String()]; !exists {
		return storefront.ErrColorNotFound
	}
	s.colors[c.ID.String()] = c
	return nil
}

func (s *Store) DeleteColor(_ context.Context, colorID id.ColorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.colors[colorID.String()]; !exists {
		return storefront.ErrColorNotFound
	}
	delete(s.colors, colorID.String())
	return nil
}

// Image Store implementation
func (s *Store) CreateImage(_ context.Context, img *catalog.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.images[img.ID.String()] = img
	return nil
}

func (s *Store) GetImage(_ context.Context, imageID id.ImageID) (*catalog.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if img, ok := s.images[imageID.String()]; ok {
		return img, nil
	}
	return nil, storefront.ErrImageNotFound
}

func (s *Store) ListImages(_ context.Context) ([]*catalog.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*catalog.Image, 0, len(s.images))
	for _, img := range s.images {
		result = append(result, img)
	}
	return result, nil
}

func (s *Store) DeleteImage(_ context.Context, imageID id.ImageID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.images[imageID.String()]; !exists {
		return storefront.ErrImageNotFound
	}
	delete(s.images, imageID.String())
	return nil
}

// Order Store implementation
func (s *Store) CreateOrder(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.ID.String()]; exists {
		return storefront.ErrAlreadyExists
	}
	s.orders[o.ID.String()] = o
	return nil
}

func (s *Store) GetOrder(_ context.Context, orderID id.OrderID) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if o, ok := s.orders[orderID.String()]; ok {
		return o, nil
	}
	return nil, storefront.ErrOrderNotFound
}

func (s *Store) DeleteOrder(_ context.Context, orderID id.OrderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[orderID.String()]; !exists {
		return storefront.ErrOrderNotFound
	}
	delete(s.orders, orderID.String())
	return nil
}

func (s *Store) ListOrders(_ context.Context, opts order.ListOpts) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*order.Order, 0)
	for _, o := range s.orders {
		if !opts.UserID.IsNil() && o.UserID != opts.UserID {
			continue
		}
		if opts.Status != "" && o.Status != opts.Status {
			continue
		}
		result = append(result, o)
	}
	return window(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, orderID id.OrderID, status order.Status, deliveredAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o, ok := s.orders[orderID.String()]; ok {
		o.Status = status
		if deliveredAt != nil {
			o.DeliveredAt = deliveredAt
		}
		o.Touch()
		return nil
	}
	return storefront.ErrOrderNotFound
}

func (s *Store) SetPaymentSession(_ context.Context, orderID id.OrderID, sessionID, paymentIntentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o, ok := s.orders[orderID.String()]; ok {
		o.CheckoutSessionID = sessionID
		o.PaymentIntentID = paymentIntentID
		o.Touch()
		return nil
	}
	return storefront.ErrOrderNotFound
}

func (s *Store) ApplyPaymentResult(_ context.Context, orderID id.OrderID, res order.PaymentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o, ok := s.orders[orderID.String()]; ok {
		o.TotalPrice = res.AmountTotal
		o.Currency = res.Currency
		o.PaymentMethod = res.PaymentMethod
		o.PaymentStatus = res.PaymentStatus
		o.Touch()
		return nil
	}
	return storefront.ErrOrderNotFound
}

func (s *Store) ListOrdersAwaitingPaymentSession(_ context.Context, createdBefore time.Time) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*order.Order, 0)
	for _, o := range s.orders {
		if o.AwaitingPaymentSession() && o.CreatedAt.Before(createdBefore) {
			result = append(result, o)
		}
	}
	return result, nil
}

func (s *Store) OrderStats(_ context.Context, dayStart time.Time) (*order.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	currency := "usd"
	stats := &order.Stats{}
	var total, todayTotal int64
	var minAmount, maxAmount int64

	for _, o := range s.orders {
		currency = o.TotalPrice.Currency
		amount := o.TotalPrice.Amount

		if stats.Count == 0 || amount < minAmount {
			minAmount = amount
		}
		if stats.Count == 0 || amount > maxAmount {
			maxAmount = amount
		}
		total += amount
		if !o.CreatedAt.Before(dayStart) {
			todayTotal += amount
		}
		stats.Count++
	}

	stats.Min = types.New(minAmount, currency)
	stats.Max = types.New(maxAmount, currency)
	stats.Total = types.New(total, currency)
	stats.TodayTotal = types.New(todayTotal, currency)
	if stats.Count > 0 {
		stats.Avg = types.New(total/stats.Count, currency)
	} else {
		stats.Avg = types.Zero(currency)
	}
	return stats, nil
}

// Review Store implementation
func (s *Store) CreateReview(_ context.Context, r *review.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.reviews {
		if existing.UserID == r.UserID && existing.ProductID == r.ProductID {
			return storefront.ErrReviewExists
		}
	}
	s.reviews[r.ID.String()] = r
	return nil
}

func (s *Store) GetReview(_ context.Context, reviewID id.ReviewID) (*review.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.reviews[reviewID.String()]; ok {
		return r, nil
	}
	return nil, storefront.ErrReviewNotFound
}

func (s *Store) GetReviewByUserAndProduct(_ context.Context, userID id.UserID, productID id.ProductID) (*review.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reviews {
		if r.UserID == userID && r.ProductID == productID {
			return r, nil
		}
	}
	return nil, storefront.ErrReviewNotFound
}

func (s *Store) ListProductReviews(_ context.Context, productID id.ProductID) ([]*review.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*review.Review, 0)
	for _, r := range s.reviews {
		if r.ProductID == productID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *Store) UpdateReview(_ context.Context, r *review.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reviews[r.ID.String()]; !exists {
		return storefront.ErrReviewNotFound
	}
	s.reviews[r.ID.String()] = r
	return nil
}

func (s *Store) DeleteReview(_ context.Context, reviewID id.ReviewID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reviews[reviewID.String()]; !exists {
		return storefront.ErrReviewNotFound
	}
	delete(s.reviews, reviewID.String())
	return nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}

// window applies offset/limit slicing to a result set. Negative values
// are treated as unset.
func window[T any](result []T, offset, limit int) []T {
	start := offset
	if start < 0 {
		start = 0
	}
	if start > len(result) {
		start = len(result)
	}
	end := start + limit
	if limit <= 0 || end > len(result) {
		end = len(result)
	}
	return result[start:end]
}

package storefront

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/harborlane/storefront/catalog"
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/review"
	"github.com/harborlane/storefront/types"
)

// ──────────────────────────────────────────────────
// Products
// ──────────────────────────────────────────────────

// CreateProduct validates and stores a new catalog entry. Brand and
// category are lower-cased name keys and must already exist; the product
// name must be unique.
func (sf *Storefront) CreateProduct(ctx context.Context, p *catalog.Product) error {
	if p.Name == "" || p.Price.Amount < 0 {
		return ErrInvalidInput
	}
	p.Brand = strings.ToLower(strings.TrimSpace(p.Brand))
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))

	if _, err := sf.store.GetCategoryByName(ctx, p.Category); err != nil {
		return err
	}
	if _, err := sf.store.GetBrandByName(ctx, p.Brand); err != nil {
		return err
	}

	if _, err := sf.store.GetProductByName(ctx, p.Name); err == nil {
		return ErrProductExists
	} else if !IsNotFound(err) {
		return err
	}

	if p.ID.IsNil() {
		p.ID = id.NewProductID()
	}
	p.Entity = types.NewEntity()

	if err := sf.store.CreateProduct(ctx, p); err != nil {
		return err
	}

	sf.plugins.EmitProductCreated(ctx, p)
	return nil
}

// GetProduct retrieves a product by ID.
func (sf *Storefront) GetProduct(ctx context.Context, productID id.ProductID) (*catalog.Product, error) {
	return sf.store.GetProduct(ctx, productID)
}

// ListProducts lists products, optionally filtered by category, brand
// or a name substring.
func (sf *Storefront) ListProducts(ctx context.Context, opts catalog.ProductListOpts) ([]*catalog.Product, error) {
	opts.Category = strings.ToLower(strings.TrimSpace(opts.Category))
	opts.Brand = strings.ToLower(strings.TrimSpace(opts.Brand))
	return sf.store.ListProducts(ctx, opts)
}

// UpdateProduct rewrites a product's editable fields. Inventory counters
// still move only through checkout's atomic adjustment.
func (sf *Storefront) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	p.Brand = strings.ToLower(strings.TrimSpace(p.Brand))
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	p.Touch()
	return sf.store.UpdateProduct(ctx, p)
}

// DeleteProduct removes a product from the catalog. Existing orders keep
// their line-item snapshots.
func (sf *Storefront) DeleteProduct(ctx context.Context, productID id.ProductID) error {
	return sf.store.DeleteProduct(ctx, productID)
}

// ──────────────────────────────────────────────────
// Product Images
// ──────────────────────────────────────────────────

// AttachProductImage uploads an image to the blob store, records it and
// appends a reference to the product. The blob key is namespaced by
// product so listing a bucket prefix groups a product's photos.
func (sf *Storefront) AttachProductImage(ctx context.Context, productID id.ProductID, filename, contentType string, body io.Reader) (*catalog.Image, error) {
	if sf.blobs == nil {
		return nil, ErrNoBlobStore
	}

	if _, err := sf.store.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	imageID := id.NewImageID()
	key := fmt.Sprintf("products/%s/%s-%s", productID, imageID, filename)

	obj, err := sf.blobs.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	img := &catalog.Image{
		Entity: types.NewEntity(),
		ID:     imageID,
		Key:    obj.Key,
		URL:    obj.URL,
	}
	if err := sf.store.CreateImage(ctx, img); err != nil {
		return nil, err
	}

	ref := catalog.ImageRef{ID: img.ID, URL: img.URL}
	if err := sf.store.AppendProductImage(ctx, productID, ref); err != nil {
		return nil, err
	}

	return img, nil
}

// ListImages returns every stored image record.
func (sf *Storefront) ListImages(ctx context.Context) ([]*catalog.Image, error) {
	return sf.store.ListImages(ctx)
}

// RemoveImage deletes an image from the blob store and the catalog.
func (sf *Storefront) RemoveImage(ctx context.Context, imageID id.ImageID) error {
	if sf.blobs == nil {
		return ErrNoBlobStore
	}

	img, err := sf.store.GetImage(ctx, imageID)
	if err != nil {
		return err
	}

	if err := sf.blobs.Delete(ctx, img.Key); err != nil {
		return fmt.Errorf("delete image blob: %w", err)
	}
	return sf.store.DeleteImage(ctx, imageID)
}

// ──────────────────────────────────────────────────
// Categories, Brands, Colors
// ──────────────────────────────────────────────────

// CreateCategory stores a new category under a unique lower-cased name.
func (sf *Storefront) CreateCategory(ctx context.Context, c *catalog.Category) error {
	c.Name = strings.ToLower(strings.TrimSpace(c.Name))
	if c.Name == "" {
		return ErrInvalidInput
	}

	if _, err := sf.store.GetCategoryByName(ctx, c.Name); err == nil {
		return ErrCategoryExists
	} else if !IsNotFound(err) {
		return err
	}

	if c.ID.IsNil() {
		c.ID = id.NewCategoryID()
	}
	c.Entity = types.NewEntity()

	return sf.store.CreateCategory(ctx, c)
}

// GetCategoryByName retrieves a category by its lower-cased name.
func (sf *Storefront) GetCategoryByName(ctx context.Context, name string) (*catalog.Category, error) {
	return sf.store.GetCategoryByName(ctx, strings.ToLower(strings.TrimSpace(name)))
}

// ListCategories lists all categories.
func (sf *Storefront) ListCategories(ctx context.Context) ([]*catalog.Category, error) {
	return sf.store.ListCategories(ctx)
}

// UpdateCategory rewrites a category. Products keep the old name key;
// renames do not cascade.
func (sf *Storefront) UpdateCategory(ctx context.Context, c *catalog.Category) error {
	c.Name = strings.ToLower(strings.TrimSpace(c.Name))
	c.Touch()
	return sf.store.UpdateCategory(ctx, c)
}

// DeleteCategory removes a category.
func (sf *Storefront) DeleteCategory(ctx context.Context, categoryID id.CategoryID) error {
	return sf.store.DeleteCategory(ctx, categoryID)
}

// CreateBrand stores a new brand under a unique lower-cased name.
func (sf *Storefront) CreateBrand(ctx context.Context, b *catalog.Brand) error {
	b.Name = strings.ToLower(strings.TrimSpace(b.Name))
	if b.Name == "" {
		return ErrInvalidInput
	}

	if _, err := sf.store.GetBrandByName(ctx, b.Name); err == nil {
		return ErrBrandExists
	} else if !IsNotFound(err) {
		return err
	}

	if b.ID.IsNil() {
		b.ID = id.NewBrandID()
	}
	b.Entity = types.NewEntity()

	return sf.store.CreateBrand(ctx, b)
}

// GetBrandByName retrieves a brand by its lower-cased name.
func (sf *Storefront) GetBrandByName(ctx context.Context, name string) (*catalog.Brand, error) {
	return sf.store.GetBrandByName(ctx, strings.ToLower(strings.TrimSpace(name)))
}

// ListBrands lists all brands.
func (sf *Storefront) ListBrands(ctx context.Context) ([]*catalog.Brand, error) {
	return sf.store.ListBrands(ctx)
}

// UpdateBrand rewrites a brand.
func (sf *Storefront) UpdateBrand(ctx context.Context, b *catalog.Brand) error {
	b.Name = strings.ToLower(strings.TrimSpace(b.Name))
	b.Touch()
	return sf.store.UpdateBrand(ctx, b)
}

// DeleteBrand removes a brand.
func (sf *Storefront) DeleteBrand(ctx context.Context, brandID id.BrandID) error {
	return sf.store.DeleteBrand(ctx, brandID)
}

// CreateColor stores a new color option under a unique lower-cased name.
func (sf *Storefront) CreateColor(ctx context.Context, c *catalog.Color) error {
	c.Name = strings.ToLower(strings.TrimSpace(c.Name))
	if c.Name == "" {
		return ErrInvalidInput
	}

	if _, err := sf.store.GetColorByName(ctx, c.Name); err == nil {
		return ErrColorExists
	} else if !IsNotFound(err) {
		return err
	}

	if c.ID.IsNil() {
		c.ID = id.NewColorID()
	}
	c.Entity = types.NewEntity()

	return sf.store.CreateColor(ctx, c)
}

// GetColorByName retrieves a color by its lower-cased name.
func (sf *Storefront) GetColorByName(ctx context.Context, name string) (*catalog.Color, error) {
	return sf.store.GetColorByName(ctx, strings.ToLower(strings.TrimSpace(name)))
}

// ListColors lists all colors.
func (sf *Storefront) ListColors(ctx context.Context) ([]*catalog.Color, error) {
	return sf.store.ListColors(ctx)
}

// UpdateColor rewrites a color.
func (sf *Storefront) UpdateColor(ctx context.Context, c *catalog.Color) error {
	c.Name = strings.ToLower(strings.TrimSpace(c.Name))
	c.Touch()
	return sf.store.UpdateColor(ctx, c)
}

// DeleteColor removes a color.
func (sf *Storefront) DeleteColor(ctx context.Context, colorID id.ColorID) error {
	return sf.store.DeleteColor(ctx, colorID)
}

// ──────────────────────────────────────────────────
// Reviews
// ──────────────────────────────────────────────────

// AddReview records a user's rating of a product. Ratings run 1 through
// 5 and each user reviews a product at most once.
func (sf *Storefront) AddReview(ctx context.Context, r *review.Review) error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}

	if _, err := sf.store.GetProduct(ctx, r.ProductID); err != nil {
		return err
	}

	if _, err := sf.store.GetReviewByUserAndProduct(ctx, r.UserID, r.ProductID); err == nil {
		return ErrReviewExists
	} else if !IsNotFound(err) {
		return err
	}

	if r.ID.IsNil() {
		r.ID = id.NewReviewID()
	}
	r.Entity = types.NewEntity()

	if err := sf.store.CreateReview(ctx, r); err != nil {
		return err
	}
	return sf.store.AppendProductReview(ctx, r.ProductID, r.ID)
}

// ListProductReviews lists all reviews for a product.
func (sf *Storefront) ListProductReviews(ctx context.Context, productID id.ProductID) ([]*review.Review, error) {
	return sf.store.ListProductReviews(ctx, productID)
}

// ProductAverageRating is the mean rating across a product's reviews,
// 0 when it has none.
func (sf *Storefront) ProductAverageRating(ctx context.Context, productID id.ProductID) (float64, error) {
	reviews, err := sf.store.ListProductReviews(ctx, productID)
	if err != nil {
		return 0, err
	}
	return review.AverageRating(reviews), nil
}

// UpdateReview rewrites a review's rating and comment.
func (sf *Storefront) UpdateReview(ctx context.Context, r *review.Review) error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRating
	}
	r.Touch()
	return sf.store.UpdateReview(ctx, r)
}

// DeleteReview removes a review.
func (sf *Storefront) DeleteReview(ctx context.Context, reviewID id.ReviewID) error {
	return sf.store.DeleteReview(ctx, reviewID)
}

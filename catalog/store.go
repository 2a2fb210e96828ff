package catalog

import (
	"context"

	"github.com/harborlane/storefront/id"
)

// Store is the catalog persistence contract.
//
// AdjustInventory must be implemented as a single atomic conditional
// increment of TotalSold at the storage layer. When allowNegative is
// false the increment must only apply while qty left covers the request;
// an insufficient-stock condition is reported by the implementation's
// sentinel, not by a read-then-write check here.
type Store interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, productID id.ProductID) (*Product, error)
	GetProductByName(ctx context.Context, name string) (*Product, error)
	ListProducts(ctx context.Context, opts ProductListOpts) ([]*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, productID id.ProductID) error
	AdjustInventory(ctx context.Context, productID id.ProductID, qty int64, allowNegative bool) error
	AppendProductImage(ctx context.Context, productID id.ProductID, ref ImageRef) error
	AppendProductReview(ctx context.Context, productID id.ProductID, reviewID id.ReviewID) error

	CreateCategory(ctx context.Context, c *Category) error
	GetCategoryByName(ctx context.Context, name string) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, categoryID id.CategoryID) error

	CreateBrand(ctx context.Context, b *Brand) error
	GetBrandByName(ctx context.Context, name string) (*Brand, error)
	ListBrands(ctx context.Context) ([]*Brand, error)
	UpdateBrand(ctx context.Context, b *Brand) error
	DeleteBrand(ctx context.Context, brandID id.BrandID) error

	CreateColor(ctx context.Context, c *Color) error
	GetColorByName(ctx context.Context, name string) (*Color, error)
	ListColors(ctx context.Context) ([]*Color, error)
	UpdateColor(ctx context.Context, c *Color) error
	DeleteColor(ctx context.Context, colorID id.ColorID) error

	CreateImage(ctx context.Context, img *Image) error
	GetImage(ctx context.Context, imageID id.ImageID) (*Image, error)
	ListImages(ctx context.Context) ([]*Image, error)
	DeleteImage(ctx context.Context, imageID id.ImageID) error
}

type ProductListOpts struct {
	Category string
	Brand    string
	Name     string // substring match
	Limit    int
	Offset   int
}

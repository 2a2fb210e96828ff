// Package catalog defines products and their classification entities
// (categories, brands, colors) plus uploaded product images.
package catalog

import (
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/types"
)

// Product is a purchasable catalog entry. Brand and Category are
// denormalized name keys (lower-cased), not object references: renaming
// a category does not cascade to its products.
//
// TotalSold is monotonic non-decreasing and only ever moves through the
// store's atomic inventory adjustment, never a read-modify-write cycle.
type Product struct {
	types.Entity
	ID          id.ProductID  `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Brand       string        `json:"brand"`
	Category    string        `json:"category"`
	Sizes       []string      `json:"sizes"`
	Colors      []string      `json:"colors"`
	Price       types.Money   `json:"price"`
	TotalQty    int64         `json:"total_qty"`
	TotalSold   int64         `json:"total_sold"`
	UserID      id.UserID     `json:"user_id"`
	Images      []ImageRef    `json:"images"`
	Reviews     []id.ReviewID `json:"reviews"`
}

// QtyLeft is the remaining stock. It can go negative when the engine
// runs with the allow-oversell policy.
func (p *Product) QtyLeft() int64 {
	return p.TotalQty - p.TotalSold
}

// ImageRef pairs an image document reference with its public URL.
type ImageRef struct {
	ID  id.ImageID `json:"id"`
	URL string     `json:"url"`
}

// Category groups products by a unique lower-cased name.
type Category struct {
	types.Entity
	ID     id.CategoryID `json:"id"`
	Name   string        `json:"name"`
	UserID id.UserID     `json:"user_id"`
	Image  string        `json:"image,omitempty"`
}

// Brand is a product manufacturer with a unique lower-cased name.
type Brand struct {
	types.Entity
	ID     id.BrandID `json:"id"`
	Name   string     `json:"name"`
	UserID id.UserID  `json:"user_id"`
}

// Color is a product color option with a unique lower-cased name.
type Color struct {
	types.Entity
	ID     id.ColorID `json:"id"`
	Name   string     `json:"name"`
	UserID id.UserID  `json:"user_id"`
}

// Image is an uploaded product photo living in the blob store.
type Image struct {
	types.Entity
	ID  id.ImageID `json:"id"`
	Key string     `json:"key"`
	URL string     `json:"url"`
}

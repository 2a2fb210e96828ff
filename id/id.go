// Package id defines TypeID-based identity types for all Storefront entities.
//
// Every entity uses a single ID struct with a prefix that identifies the
// entity type. IDs are K-sortable (UUIDv7-based), globally unique, and
// URL-safe in the format "prefix_suffix".
package id

import (
	"database/sql/driver"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in a TypeID.
type Prefix string

// Prefix constants for all Storefront entity types.
const (
	PrefixUser     Prefix = "user"  // Registered customer or admin
	PrefixProduct  Prefix = "prod"  // Catalog product
	PrefixCategory Prefix = "cat"   // Product category
	PrefixBrand    Prefix = "brand" // Product brand
	PrefixColor    Prefix = "clr"   // Product color
	PrefixCoupon   Prefix = "cpn"   // Discount coupon
	PrefixOrder    Prefix = "ord"   // Customer order
	PrefixLineItem Prefix = "li"    // Order line item
	PrefixReview   Prefix = "rev"   // Product review
	PrefixImage    Prefix = "img"   // Uploaded product image
)

// ID is the primary identifier type for all Storefront entities.
// It wraps a TypeID providing a prefix-qualified, globally unique,
// sortable, URL-safe identifier in the format "prefix_suffix".
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}

	return ID{inner: tid, valid: true}
}

// Parse parses a TypeID string (e.g., "ord_01h2xcejqtf2nbrexx3vqjhp41")
// into an ID. Returns an error if the string is not valid.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix parses a TypeID string and validates that its prefix
// matches the expected value.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// ──────────────────────────────────────────────────
// Type aliases
// ──────────────────────────────────────────────────

// UserID is a type-safe identifier for users (prefix: "user").
type UserID = ID

// ProductID is a type-safe identifier for products (prefix: "prod").
type ProductID = ID

// CategoryID is a type-safe identifier for categories (prefix: "cat").
type CategoryID = ID

// BrandID is a type-safe identifier for brands (prefix: "brand").
type BrandID = ID

// ColorID is a type-safe identifier for colors (prefix: "clr").
type ColorID = ID

// CouponID is a type-safe identifier for coupons (prefix: "cpn").
type CouponID = ID

// OrderID is a type-safe identifier for orders (prefix: "ord").
type OrderID = ID

// LineItemID is a type-safe identifier for order line items (prefix: "li").
type LineItemID = ID

// ReviewID is a type-safe identifier for reviews (prefix: "rev").
type ReviewID = ID

// ImageID is a type-safe identifier for images (prefix: "img").
type ImageID = ID

// AnyID is a type alias that accepts any valid prefix.
type AnyID = ID

// ──────────────────────────────────────────────────
// Convenience constructors
// ──────────────────────────────────────────────────

// NewUserID generates a new unique user ID.
func NewUserID() ID { return New(PrefixUser) }

// NewProductID generates a new unique product ID.
func NewProductID() ID { return New(PrefixProduct) }

// NewCategoryID generates a new unique category ID.
func NewCategoryID() ID { return New(PrefixCategory) }

// NewBrandID generates a new unique brand ID.
func NewBrandID() ID { return New(PrefixBrand) }

// NewColorID generates a new unique color ID.
func NewColorID() ID { return New(PrefixColor) }

// NewCouponID generates a new unique coupon ID.
func NewCouponID() ID { return New(PrefixCoupon) }

// NewOrderID generates a new unique order ID.
func NewOrderID() ID { return New(PrefixOrder) }

// NewLineItemID generates a new unique line item ID.
func NewLineItemID() ID { return New(PrefixLineItem) }

// NewReviewID generates a new unique review ID.
func NewReviewID() ID { return New(PrefixReview) }

// NewImageID generates a new unique image ID.
func NewImageID() ID { return New(PrefixImage) }

// ──────────────────────────────────────────────────
// Convenience parsers
// ──────────────────────────────────────────────────

// ParseUserID parses a string and validates the "user" prefix.
func ParseUserID(s string) (ID, error) { return ParseWithPrefix(s, PrefixUser) }

// ParseProductID parses a string and validates the "prod" prefix.
func ParseProductID(s string) (ID, error) { return ParseWithPrefix(s, PrefixProduct) }

// ParseCategoryID parses a string and validates the "cat" prefix.
func ParseCategoryID(s string) (ID, error) { return ParseWithPrefix(s, PrefixCategory) }

// ParseBrandID parses a string and validates the "brand" prefix.
func ParseBrandID(s string) (ID, error) { return ParseWithPrefix(s, PrefixBrand) }

// ParseColorID parses a string and validates the "clr" prefix.
func ParseColorID(s string) (ID, error) { return ParseWithPrefix(s, PrefixColor) }

// ParseCouponID parses a string and validates the "cpn" prefix.
func ParseCouponID(s string) (ID, error) { return ParseWithPrefix(s, PrefixCoupon) }

// ParseOrderID parses a string and validates the "ord" prefix.
func ParseOrderID(s string) (ID, error) { return ParseWithPrefix(s, PrefixOrder) }

// ParseLineItemID parses a string and validates the "li" prefix.
func ParseLineItemID(s string) (ID, error) { return ParseWithPrefix(s, PrefixLineItem) }

// ParseReviewID parses a string and validates the "rev" prefix.
func ParseReviewID(s string) (ID, error) { return ParseWithPrefix(s, PrefixReview) }

// ParseImageID parses a string and validates the "img" prefix.
func ParseImageID(s string) (ID, error) { return ParseWithPrefix(s, PrefixImage) }

// ParseAny parses a string into an ID without type checking the prefix.
func ParseAny(s string) (ID, error) { return Parse(s) }

// ──────────────────────────────────────────────────
// ID methods
// ──────────────────────────────────────────────────

// String returns the full TypeID string representation (prefix_suffix).
// Returns an empty string for the Nil ID.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return i.inner.String()
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}

	return Prefix(i.inner.Prefix())
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// Value implements driver.Valuer for database storage.
// Returns nil for the Nil ID so that optional reference columns store NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}

	return i.inner.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (i *ID) Scan(src any) error {
	if src == nil {
		*i = Nil

		return nil
	}

	switch v := src.(type) {
	case string:
		if v == "" {
			*i = Nil

			return nil
		}

		return i.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 0 {
			*i = Nil

			return nil
		}

		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}

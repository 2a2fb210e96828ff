package storefront

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("storefront: not found")
	ErrAlreadyExists = errors.New("storefront: already exists")
	ErrInvalidInput  = errors.New("storefront: invalid input")
	ErrUnauthorized  = errors.New("storefront: unauthorized")
	ErrForbidden     = errors.New("storefront: forbidden")

	// User errors
	ErrUserNotFound       = errors.New("storefront: user not found")
	ErrEmailTaken         = errors.New("storefront: email already registered")
	ErrInvalidCredentials = errors.New("storefront: invalid credentials")

	// Coupon errors
	ErrCouponNotFound      = errors.New("storefront: coupon not found")
	ErrCouponExpired       = errors.New("storefront: coupon expired")
	ErrCouponExists        = errors.New("storefront: coupon already exists")
	ErrInvalidDiscount     = errors.New("storefront: discount must be between 0 and 100")
	ErrInvalidCouponWindow = errors.New("storefront: end date must be after start date")
	ErrCouponDateInPast    = errors.New("storefront: start date or end date cannot be in the past")

	// Catalog errors
	ErrProductNotFound  = errors.New("storefront: product not found")
	ErrProductExists    = errors.New("storefront: product already exists")
	ErrCategoryNotFound = errors.New("storefront: category not found")
	ErrCategoryExists   = errors.New("storefront: category already exists")
	ErrBrandNotFound    = errors.New("storefront: brand not found")
	ErrBrandExists      = errors.New("storefront: brand already exists")
	ErrColorNotFound    = errors.New("storefront: color not found")
	ErrColorExists      = errors.New("storefront: color already exists")
	ErrImageNotFound    = errors.New("storefront: image not found")
	ErrNoBlobStore      = errors.New("storefront: no blob store configured")

	// Order errors
	ErrOrderNotFound           = errors.New("storefront: order not found")
	ErrEmptyOrder              = errors.New("storefront: no items to be purchased")
	ErrShippingAddressRequired = errors.New("storefront: shipping address required")
	ErrInsufficientStock       = errors.New("storefront: insufficient stock")
	ErrInvalidOrderStatus      = errors.New("storefront: invalid order status")
	ErrPaymentSetup            = errors.New("storefront: payment setup failed, order pending")

	// Review errors
	ErrReviewNotFound = errors.New("storefront: review not found")
	ErrReviewExists   = errors.New("storefront: product already reviewed by this user")
	ErrInvalidRating  = errors.New("storefront: rating must be between 1 and 5")

	// Store errors
	ErrStoreNotReady     = errors.New("storefront: store not ready")
	ErrStoreClosed       = errors.New("storefront: store is closed")
	ErrMigrationFailed   = errors.New("storefront: migration failed")
	ErrTransactionFailed = errors.New("storefront: transaction failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("storefront: validation failed for %s: %s", e.Field, e.Message)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCouponNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrBrandNotFound) ||
		errors.Is(err, ErrColorNotFound) ||
		errors.Is(err, ErrImageNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrReviewNotFound)
}

// IsConflict returns true if the error is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrCouponExists) ||
		errors.Is(err, ErrProductExists) ||
		errors.Is(err, ErrCategoryExists) ||
		errors.Is(err, ErrBrandExists) ||
		errors.Is(err, ErrColorExists) ||
		errors.Is(err, ErrReviewExists)
}

// IsPrecondition returns true if the error is a failed business
// precondition that the caller can correct and retry.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrCouponExpired) ||
		errors.Is(err, ErrInvalidDiscount) ||
		errors.Is(err, ErrInvalidCouponWindow) ||
		errors.Is(err, ErrCouponDateInPast) ||
		errors.Is(err, ErrEmptyOrder) ||
		errors.Is(err, ErrShippingAddressRequired) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidOrderStatus) ||
		errors.Is(err, ErrInvalidRating)
}

// IsRetryable returns true if the error is temporary and the operation
// can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrTransactionFailed) ||
		errors.Is(err, ErrPaymentSetup)
}

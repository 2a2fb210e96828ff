package audithook

// Action constants for audit events.
const (
	// Order actions
	ActionOrderCreated       = "order.created"
	ActionOrderStatusChanged = "order.status_changed"

	// Payment actions
	ActionPaymentCompleted     = "payment.completed"
	ActionPaymentSessionFailed = "payment.session_failed"

	// Coupon actions
	ActionCouponRedeemed = "coupon.redeemed"

	// Catalog actions
	ActionProductCreated = "product.created"

	// Account actions
	ActionUserRegistered = "user.registered"
)

// Resource constants for audit events.
const (
	ResourceOrder   = "order"
	ResourcePayment = "payment"
	ResourceCoupon  = "coupon"
	ResourceProduct = "product"
	ResourceUser    = "user"
)

// Category constants for audit events.
const (
	CategoryCheckout = "checkout"
	CategoryPayment  = "payment"
	CategoryCatalog  = "catalog"
	CategoryAccount  = "account"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

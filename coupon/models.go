// Package coupon defines discount coupons and their storage contract.
package coupon

import (
	"math"
	"strings"
	"time"

	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/types"
)

// Coupon is a percentage discount valid inside [StartDate, EndDate).
// Codes are stored upper-cased; Discount is a whole-number percentage
// in [0, 100], enforced at write time, trusted at redemption time.
type Coupon struct {
	types.Entity
	ID        id.CouponID `json:"id"`
	Code      string      `json:"code"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	Discount  int         `json:"discount"`
	UserID    id.UserID   `json:"user_id"`
}

// NormalizeCode upper-cases and trims a coupon code for lookup and storage.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsExpired reports whether the coupon's validity window has closed.
// A coupon is expired from the instant now >= EndDate.
func (c *Coupon) IsExpired(now time.Time) bool {
	return !now.Before(c.EndDate)
}

// DaysLeft returns the remaining whole days of validity, 0 if expired.
// Partial days round up, so a coupon expiring in one hour has 1 day left.
func (c *Coupon) DaysLeft(now time.Time) int {
	remaining := c.EndDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

package storefront

import (
	"context"
	"strings"
	"time"

	"github.com/harborlane/storefront/auth"
	"github.com/harborlane/storefront/coupon"
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/types"
	"github.com/harborlane/storefront/user"
)

// ──────────────────────────────────────────────────
// Accounts
// ──────────────────────────────────────────────────

// RegisterUser creates a new account. The raw password is hashed here;
// the store only ever sees the digest.
func (sf *Storefront) RegisterUser(ctx context.Context, fullname, email, password string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if fullname == "" || email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	if _, err := sf.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Entity:       types.NewEntity(),
		ID:           id.NewUserID(),
		Fullname:     fullname,
		Email:        email,
		PasswordHash: hash,
	}
	if err := sf.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	sf.plugins.EmitUserRegistered(ctx, u.ID.String())
	return u, nil
}

// AuthenticateUser checks an email and password pair. Unknown email and
// wrong password collapse into the same error so login attempts cannot
// enumerate accounts.
func (sf *Storefront) AuthenticateUser(ctx context.Context, email, password string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := sf.store.GetUserByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetUser retrieves a user by ID.
func (sf *Storefront) GetUser(ctx context.Context, userID id.UserID) (*user.User, error) {
	return sf.store.GetUser(ctx, userID)
}

// ListUsers returns every registered account.
func (sf *Storefront) ListUsers(ctx context.Context) ([]*user.User, error) {
	return sf.store.ListUsers(ctx)
}

// UpdateShippingAddress stores the user's shipping profile and marks the
// account ready for checkout.
func (sf *Storefront) UpdateShippingAddress(ctx context.Context, userID id.UserID, addr user.Address) (*user.User, error) {
	u, err := sf.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.ShippingAddress = &addr
	u.HasShippingAddress = true
	u.Touch()

	if err := sf.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ──────────────────────────────────────────────────
// Coupons
// ──────────────────────────────────────────────────

// CreateCoupon validates and stores a new coupon. The code is
// upper-cased before the uniqueness check so "save10" and "SAVE10"
// are the same coupon.
func (sf *Storefront) CreateCoupon(ctx context.Context, c *coupon.Coupon) error {
	c.Code = coupon.NormalizeCode(c.Code)

	if err := validateCoupon(c, time.Now()); err != nil {
		return err
	}

	if _, err := sf.store.GetCouponByCode(ctx, c.Code); err == nil {
		return ErrCouponExists
	} else if !IsNotFound(err) {
		return err
	}

	if c.ID.IsNil() {
		c.ID = id.NewCouponID()
	}
	c.Entity = types.NewEntity()

	return sf.store.CreateCoupon(ctx, c)
}

// GetCoupon retrieves a coupon by ID.
func (sf *Storefront) GetCoupon(ctx context.Context, couponID id.CouponID) (*coupon.Coupon, error) {
	return sf.store.GetCoupon(ctx, couponID)
}

// GetCouponByCode retrieves a coupon by its code, case-insensitively.
func (sf *Storefront) GetCouponByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	return sf.store.GetCouponByCode(ctx, coupon.NormalizeCode(code))
}

// ListCoupons lists coupons.
func (sf *Storefront) ListCoupons(ctx context.Context, opts coupon.ListOpts) ([]*coupon.Coupon, error) {
	return sf.store.ListCoupons(ctx, opts)
}

// UpdateCoupon revalidates and rewrites a coupon.
func (sf *Storefront) UpdateCoupon(ctx context.Context, c *coupon.Coupon) error {
	c.Code = coupon.NormalizeCode(c.Code)

	if err := validateCoupon(c, time.Now()); err != nil {
		return err
	}

	c.Touch()
	return sf.store.UpdateCoupon(ctx, c)
}

// DeleteCoupon removes a coupon. Orders that already redeemed it keep
// their snapshotted code and discount.
func (sf *Storefront) DeleteCoupon(ctx context.Context, couponID id.CouponID) error {
	return sf.store.DeleteCoupon(ctx, couponID)
}

// validateCoupon enforces the write-time invariants: discount is a whole
// percentage in [0, 100], neither date is in the past, and the window
// is non-empty.
func validateCoupon(c *coupon.Coupon, now time.Time) error {
	if c.Discount < 0 || c.Discount > 100 {
		return ErrInvalidDiscount
	}
	if c.StartDate.Before(now) || c.EndDate.Before(now) {
		return ErrCouponDateInPast
	}
	if !c.EndDate.After(c.StartDate) {
		return ErrInvalidCouponWindow
	}
	return nil
}

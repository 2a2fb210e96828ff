package coupon

import (
	"context"

	"github.com/harborlane/storefront/id"
)

type Store interface {
	Create(ctx context.Context, c *Coupon) error
	Get(ctx context.Context, couponID id.CouponID) (*Coupon, error)
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context, opts ListOpts) ([]*Coupon, error)
	Update(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, couponID id.CouponID) error
}

type ListOpts struct {
	Limit  int
	Offset int
}

package review

import (
	"context"

	"github.com/harborlane/storefront/id"
)

type Store interface {
	Create(ctx context.Context, r *Review) error
	Get(ctx context.Context, reviewID id.ReviewID) (*Review, error)
	GetByUserAndProduct(ctx context.Context, userID id.UserID, productID id.ProductID) (*Review, error)
	ListForProduct(ctx context.Context, productID id.ProductID) ([]*Review, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, reviewID id.ReviewID) error
}

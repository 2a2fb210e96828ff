package user

import (
	"context"

	"github.com/harborlane/storefront/id"
)

type Store interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, userID id.UserID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, u *User) error
	AppendOrder(ctx context.Context, userID id.UserID, orderID id.OrderID) error
}

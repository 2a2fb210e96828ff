// Package user defines the customer account model and its storage contract.
package user

import (
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/types"
)

// Address is a shipping destination. It is stored on the user profile and
// snapshotted onto each order at creation time.
type Address struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Province   string `json:"province,omitempty"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// User is a registered account. PasswordHash is a bcrypt digest; the raw
// credential never reaches the store. Orders is an append-only list of
// owned order references.
type User struct {
	types.Entity
	ID                 id.UserID    `json:"id"`
	Fullname           string       `json:"fullname"`
	Email              string       `json:"email"`
	PasswordHash       string       `json:"-"`
	IsAdmin            bool         `json:"is_admin"`
	ShippingAddress    *Address     `json:"shipping_address,omitempty"`
	HasShippingAddress bool         `json:"has_shipping_address"`
	Orders             []id.OrderID `json:"orders"`
}

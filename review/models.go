// Package review defines product reviews and their storage contract.
package review

import (
	"github.com/harborlane/storefront/id"
	"github.com/harborlane/storefront/types"
)

// Review is a single user's rating of a product. One review per user
// per product; ratings run 1 through 5.
type Review struct {
	types.Entity
	ID        id.ReviewID  `json:"id"`
	UserID    id.UserID    `json:"user_id"`
	ProductID id.ProductID `json:"product_id"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment"`
}

// AverageRating is the mean of the given reviews' ratings, 0 when empty.
func AverageRating(reviews []*Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

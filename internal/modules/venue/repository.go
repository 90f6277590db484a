package venue

import (
	"context"

	"github.com/georgemunganga/supply-storefront/internal/modules/catalog"
)

// Repository persists venues and their product sets. A nil productIDs on
// Update leaves the product set unchanged; any other value replaces it.
type Repository interface {
	Create(ctx context.Context, v *Venue, productIDs []int64) error
	Update(ctx context.Context, v *Venue, productIDs []int64) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Venue, error)

	// List returns the venues with the given ids, or every venue when ids is nil.
	List(ctx context.Context, ids []int64) ([]*Venue, error)

	ListProducts(ctx context.Context, venueID int64, limit, offset int) ([]*catalog.Product, int, error)
}

package cart

import "context"

// Repository persists carts. Save replaces every line of the cart.
type Repository interface {
	Get(ctx context.Context, customerID int64) (*Cart, error)
	Save(ctx context.Context, customerID int64, items []ItemInput) error
	Clear(ctx context.Context, customerID int64) error

	// Describe joins submitted lines with their product and venue details.
	// Unknown products are a validation error.
	Describe(ctx context.Context, items []ItemInput) ([]*Item, error)
}

package catalog

import "context"

// Repository defines the interface for product data storage.
type Repository interface {
	FacetSource

	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error

	// Search returns one page of products matching q and the total match count.
	Search(ctx context.Context, q Query) ([]*Product, int, error)
}

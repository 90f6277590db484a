package customer

import "context"

// Repository persists customers. Create and Update replace the venue set.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	GetByPhone(ctx context.Context, phone string) (*Customer, error)
	List(ctx context.Context, search string, limit, offset int) ([]*Customer, int, error)
}

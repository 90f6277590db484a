package customer

import (
	"context"

	"github.com/georgemunganga/supply-storefront/internal/batch"
)

// Service defines customer business logic.
type Service interface {
	// UpsertCustomers applies a sync batch record by record.
	UpsertCustomers(ctx context.Context, recs []Record) *batch.Result[*Customer]

	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	ListCustomers(ctx context.Context, search string, page, pageSize int) (*Page, error)
	CreateCustomer(ctx context.Context, rec AdminRecord) (*Customer, error)
	UpdateCustomer(ctx context.Context, id int64, rec AdminRecord) (*Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

// Package promotion manages the marketing records the storefront shows:
// home page banners, product detail call-outs and free-form content blocks.
package promotion

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindBanner  Kind = "banner"
	KindDetail  Kind = "detail"
	KindContent Kind = "content"
)

func (k Kind) Valid() bool {
	switch k {
	case KindBanner, KindDetail, KindContent:
		return true
	}
	return false
}

type Promotion struct {
	ID           uuid.UUID `json:"id"`
	Kind         Kind      `json:"kind"`
	Title        string    `json:"title"`
	ImageURL     string    `json:"imageUrl"`
	TargetURL    string    `json:"targetUrl"`
	Content      string    `json:"content"`
	IsActive     bool      `json:"isActive"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Input is the writable part of a promotion. IsActive defaults to true.
type Input struct {
	Kind         Kind   `json:"kind"`
	Title        string `json:"title"`
	ImageURL     string `json:"imageUrl"`
	TargetURL    string `json:"targetUrl"`
	Content      string `json:"content"`
	IsActive     *bool  `json:"isActive"`
	DisplayOrder int    `json:"displayOrder"`
}

// ListFilter narrows List. A zero value returns everything.
type ListFilter struct {
	Kind       Kind
	ActiveOnly bool
}

type Repository interface {
	Create(ctx context.Context, p *Promotion) error
	Update(ctx context.Context, p *Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Promotion, error)
	// List orders by display_order, then creation time.
	List(ctx context.Context, f ListFilter) ([]*Promotion, error)
}

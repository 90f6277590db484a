package promotion

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
)

type Service interface {
	// Active returns the live promotions of a kind, or of every kind when
	// kind is empty.
	Active(ctx context.Context, kind Kind) ([]*Promotion, error)

	List(ctx context.Context) ([]*Promotion, error)
	Get(ctx context.Context, id uuid.UUID) (*Promotion, error)
	Create(ctx context.Context, in Input) (*Promotion, error)
	Update(ctx context.Context, id uuid.UUID, in Input) (*Promotion, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) Active(ctx context.Context, kind Kind) ([]*Promotion, error) {
	if kind != "" && !kind.Valid() {
		return nil, apperr.Validation("unknown promotion kind %q", kind)
	}
	return s.repo.List(ctx, ListFilter{Kind: kind, ActiveOnly: true})
}

func (s *service) List(ctx context.Context) ([]*Promotion, error) {
	return s.repo.List(ctx, ListFilter{})
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Promotion, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, in Input) (*Promotion, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	p := &Promotion{ID: uuid.New()}
	apply(p, in)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in Input) (*Promotion, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(p, in)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func validate(in Input) error {
	if !in.Kind.Valid() {
		return apperr.Validation("kind must be one of banner, detail, content")
	}
	if in.Kind == KindBanner && strings.TrimSpace(in.ImageURL) == "" {
		return apperr.Validation("a banner needs an imageUrl")
	}
	return nil
}

func apply(p *Promotion, in Input) {
	p.Kind = in.Kind
	p.Title = strings.TrimSpace(in.Title)
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	p.TargetURL = strings.TrimSpace(in.TargetURL)
	p.Content = in.Content
	p.IsActive = in.IsActive == nil || *in.IsActive
	p.DisplayOrder = in.DisplayOrder
}

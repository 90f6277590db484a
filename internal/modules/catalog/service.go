package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
	"github.com/georgemunganga/supply-storefront/internal/batch"
)

// Service defines catalog business logic.
type Service interface {
	ListProducts(ctx context.Context, q Query) (*ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, rec ProductRecord) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, rec ProductRecord) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	// UpsertProducts applies a sync batch record by record.
	UpsertProducts(ctx context.Context, recs []ProductRecord) *batch.Result[*Product]
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) ListProducts(ctx context.Context, q Query) (*ProductPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}

	products, total, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	facets, err := AvailableFacets(ctx, s.repo, q.Filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + q.PageSize - 1) / q.PageSize
	return &ProductPage{
		Products: products,
		Pagination: Pagination{
			Total:      total,
			Page:       q.Page,
			PageSize:   q.PageSize,
			TotalPages: totalPages,
			HasMore:    q.Page < totalPages,
		},
		Filters: FilterState{
			AppliedCategories:    nonNil(q.Filter.Categories),
			AppliedManufacturers: nonNil(q.Filter.Manufacturers),
			AppliedPatterns:      nonNil(q.Filter.Patterns),
			AppliedCollection:    q.Filter.Collection,
			AppliedQuickShip:     q.Filter.QuickShip,
			Facets:               facets,
		},
	}, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) CreateProduct(ctx context.Context, rec ProductRecord) (*Product, error) {
	if err := validateRecord(rec); err != nil {
		return nil, err
	}
	p := &Product{ID: rec.TrxProductID}
	apply(p, rec)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id int64, rec ProductRecord) (*Product, error) {
	rec.TrxProductID = id
	if err := validateRecord(rec); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(p, rec)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) UpsertProducts(ctx context.Context, recs []ProductRecord) *batch.Result[*Product] {
	res := batch.New[*Product]()
	for _, rec := range recs {
		key := strconv.FormatInt(rec.TrxProductID, 10)
		p, err := s.upsert(ctx, rec)
		if err != nil {
			res.Fail(key, err)
			continue
		}
		res.Ok(p)
	}
	return res
}

func (s *service) upsert(ctx context.Context, rec ProductRecord) (*Product, error) {
	if err := validateRecord(rec); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, rec.TrxProductID)
	switch {
	case err == nil:
		apply(existing, rec)
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case apperr.IsNotFound(err):
		p := &Product{ID: rec.TrxProductID}
		apply(p, rec)
		if err := s.repo.Create(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, err
	}
}

// ── helpers ──────────────────────────────────────────────────────────────────

func validateRecord(rec ProductRecord) error {
	switch {
	case rec.TrxProductID <= 0:
		return apperr.Validation("trx_product_id is required")
	case strings.TrimSpace(rec.SKU) == "":
		return apperr.Validation("sku is required")
	case strings.TrimSpace(rec.Title) == "":
		return apperr.Validation("title is required")
	case rec.QtyAvailable != nil && *rec.QtyAvailable < 0:
		return apperr.Validation("qty_available must not be negative")
	}
	return nil
}

// apply copies the mutable fields of rec onto p. Blank facet values are
// stored as NULL so they never surface as filter options.
func apply(p *Product, rec ProductRecord) {
	p.SKU = strings.TrimSpace(rec.SKU)
	p.Title = strings.TrimSpace(rec.Title)
	p.Description = rec.Description
	p.LongDescription = rec.LongDescription
	p.Manufacturer = blankToNil(rec.Manufacturer)
	p.Category = blankToNil(rec.Category)
	p.UnitOfMeasure = strings.TrimSpace(rec.UnitOfMeasure)
	p.QtyAvailable = rec.QtyAvailable
	p.Tags = nonNil(rec.Tags)
	p.Collection = blankToNil(rec.Aqcat)
	p.Pattern = blankToNil(rec.Pattern)
	p.QuickShip = rec.QuickShip
	p.Images = nonNil(rec.Images)
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

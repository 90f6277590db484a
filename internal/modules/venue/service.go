package venue

import (
	"context"
	"strconv"
	"strings"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
	"github.com/georgemunganga/supply-storefront/internal/batch"
	"github.com/georgemunganga/supply-storefront/internal/modules/catalog"
	"github.com/georgemunganga/supply-storefront/internal/modules/pricing"
)

// PriceSource looks up prices for several products of one venue.
type PriceSource interface {
	Fetch(ctx context.Context, venueID string, productIDs []string) (*pricing.Result, error)
}

type Service interface {
	// UpsertVenueProducts applies a venue-products sync batch record by
	// record, replacing each venue's product set.
	UpsertVenueProducts(ctx context.Context, recs []Record) *batch.Result[*Venue]

	// ListVenues returns the venues the viewer may browse.
	ListVenues(ctx context.Context, v Viewer) ([]*Venue, error)

	// Products returns one page of a venue catalog, priced when the viewer
	// is entitled.
	Products(ctx context.Context, v Viewer, venueID int64, page, pageSize int) (*ProductPage, error)

	GetVenue(ctx context.Context, id int64) (*Venue, error)
	CreateVenue(ctx context.Context, rec Record) (*Venue, error)
	UpdateVenue(ctx context.Context, id int64, rec Record) (*Venue, error)
	DeleteVenue(ctx context.Context, id int64) error
}

type service struct {
	repo   Repository
	prices PriceSource
}

func NewService(repo Repository, prices PriceSource) Service {
	return &service{repo: repo, prices: prices}
}

func (s *service) UpsertVenueProducts(ctx context.Context, recs []Record) *batch.Result[*Venue] {
	res := batch.New[*Venue]()
	for _, rec := range recs {
		key := strconv.FormatInt(rec.TrxVenueID, 10)
		if rec.TrxProductIDs == nil {
			rec.TrxProductIDs = []int64{}
		}
		v, err := s.upsert(ctx, rec)
		if err != nil {
			res.Fail(key, err)
			continue
		}
		res.Ok(v)
	}
	return res
}

func (s *service) upsert(ctx context.Context, rec Record) (*Venue, error) {
	if err := validate(rec); err != nil {
		return nil, err
	}
	productIDs := uniqueIDs(rec.TrxProductIDs)

	existing, err := s.repo.GetByID(ctx, rec.TrxVenueID)
	switch {
	case err == nil:
		existing.Name = strings.TrimSpace(rec.Name)
		if err := s.repo.Update(ctx, existing, productIDs); err != nil {
			return nil, err
		}
		return existing, nil
	case apperr.IsNotFound(err):
		v := &Venue{ID: rec.TrxVenueID, Name: strings.TrimSpace(rec.Name)}
		if err := s.repo.Create(ctx, v, productIDs); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, err
	}
}

func (s *service) ListVenues(ctx context.Context, v Viewer) ([]*Venue, error) {
	if v.AllVenues {
		return s.repo.List(ctx, nil)
	}
	if len(v.Venues) == 0 {
		return []*Venue{}, nil
	}
	return s.repo.List(ctx, v.Venues)
}

func (s *service) Products(ctx context.Context, v Viewer, venueID int64, page, pageSize int) (*ProductPage, error) {
	if !v.canAccess(venueID) {
		return nil, apperr.Forbidden("no access to venue %d", venueID)
	}
	venue, err := s.repo.GetByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 24
	}
	products, total, err := s.repo.ListProducts(ctx, venueID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	out := &ProductPage{
		Venue:         venue,
		Products:      make([]*Product, 0, len(products)),
		PricingErrors: []pricing.PriceError{},
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		out.Products = append(out.Products, &Product{Product: p})
		ids = append(ids, strconv.FormatInt(p.ID, 10))
	}

	if v.SeePrices && len(ids) > 0 {
		res, err := s.prices.Fetch(ctx, venue.Key(), ids)
		if err != nil {
			return nil, err
		}
		prices := res.ByProduct()
		for _, p := range out.Products {
			if price, ok := prices[strconv.FormatInt(p.ID, 10)]; ok {
				price := price
				p.Price = &price
			}
		}
		out.PricingErrors = res.Errors
	}

	totalPages := (total + pageSize - 1) / pageSize
	out.Pagination = catalog.Pagination{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
	return out, nil
}

func (s *service) GetVenue(ctx context.Context, id int64) (*Venue, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) CreateVenue(ctx context.Context, rec Record) (*Venue, error) {
	if err := validate(rec); err != nil {
		return nil, err
	}
	v := &Venue{ID: rec.TrxVenueID, Name: strings.TrimSpace(rec.Name)}
	if err := s.repo.Create(ctx, v, uniqueIDs(rec.TrxProductIDs)); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) UpdateVenue(ctx context.Context, id int64, rec Record) (*Venue, error) {
	rec.TrxVenueID = id
	if err := validate(rec); err != nil {
		return nil, err
	}
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Name = strings.TrimSpace(rec.Name)
	var productIDs []int64
	if rec.TrxProductIDs != nil {
		productIDs = uniqueIDs(rec.TrxProductIDs)
	}
	if err := s.repo.Update(ctx, v, productIDs); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) DeleteVenue(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func validate(rec Record) error {
	switch {
	case rec.TrxVenueID <= 0:
		return apperr.Validation("trx_venue_id is required")
	case strings.TrimSpace(rec.Name) == "":
		return apperr.Validation("name is required")
	}
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := map[int64]bool{}
	out := []int64{}
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

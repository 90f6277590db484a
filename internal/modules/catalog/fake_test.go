package catalog

import (
	"context"
	"sort"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
)

// memRepo is an in-memory Repository that evaluates filters with Filter.Match.
type memRepo struct {
	products   map[int64]*Product
	facetCalls []Filter
	failGet    error
}

func newMemRepo(products ...*Product) *memRepo {
	r := &memRepo{products: map[int64]*Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *memRepo) Create(_ context.Context, p *Product) error {
	if _, ok := r.products[p.ID]; ok {
		return apperr.Conflict("product %d already exists", p.ID)
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*Product, error) {
	if r.failGet != nil {
		return nil, r.failGet
	}
	p, ok := r.products[id]
	if !ok {
		return nil, apperr.NotFound("product %d not found", id)
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, p *Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return apperr.NotFound("product %d not found", p.ID)
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return apperr.NotFound("product %d not found", id)
	}
	delete(r.products, id)
	return nil
}

func (r *memRepo) matching(f Filter) []*Product {
	var out []*Product
	for _, p := range r.products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memRepo) Search(_ context.Context, q Query) ([]*Product, int, error) {
	all := r.matching(q.Filter)
	start := (q.Page - 1) * q.PageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + q.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (r *memRepo) FacetRows(_ context.Context, f Filter) ([]FacetRow, error) {
	r.facetCalls = append(r.facetCalls, f)
	var rows []FacetRow
	for _, p := range r.matching(f) {
		rows = append(rows, FacetRow{
			Category:     p.Category,
			Manufacturer: p.Manufacturer,
			Pattern:      p.Pattern,
			Collection:   p.Collection,
			QuickShip:    p.QuickShip != nil && *p.QuickShip,
		})
	}
	return rows, nil
}

func str(s string) *string { return &s }

func boolp(b bool) *bool { return &b }

// fixture is a small catalog spanning every facet dimension, including
// products with missing and blank facet values.
func fixture() []*Product {
	return []*Product{
		{ID: 1, SKU: "PL-100", Title: "Dinner Plate 10in", Category: str("Plates"), Manufacturer: str("Steelite"), Pattern: str("Aura"), Collection: str("A1"), QuickShip: boolp(true)},
		{ID: 2, SKU: "PL-200", Title: "Salad Plate 8in", Category: str("Plates"), Manufacturer: str("Libbey"), Pattern: str("Aura"), Collection: str("A1")},
		{ID: 3, SKU: "BW-300", Title: "Soup Bowl", Category: str("Bowls"), Manufacturer: str("Steelite"), Pattern: str("Rustic"), Collection: str("B2"), QuickShip: boolp(false)},
		{ID: 4, SKU: "GL-400", Title: "Wine Glass", Category: str("Glassware"), Manufacturer: str("Libbey")},
		{ID: 5, SKU: "FL-500", Title: "Dinner Fork", Category: str(""), Manufacturer: str("Oneida"), QuickShip: boolp(true)},
		{ID: 6, SKU: "BW-600", Title: "cereal bowl", Category: str("Bowls"), Manufacturer: str("Libbey"), Pattern: str("Rustic"), Collection: str("B2")},
	}
}

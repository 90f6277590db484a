package catalog

import (
	"context"
	"sort"
)

// FacetRow is the projection of one product onto the facet dimensions.
type FacetRow struct {
	Category     *string
	Manufacturer *string
	Pattern      *string
	Collection   *string
	QuickShip    bool
}

// FacetSource returns the facet projection of every product matching a filter.
type FacetSource interface {
	FacetRows(ctx context.Context, f Filter) ([]FacetRow, error)
}

// Facets lists the selectable values of every dimension.
type Facets struct {
	Categories    []string `json:"availableCategories"`
	Manufacturers []string `json:"availableManufacturers"`
	Patterns      []string `json:"availablePatterns"`
	Collections   []string `json:"availableCollections"`
	HasQuickShip  bool     `json:"hasQuickShip"`
}

// AvailableFacets computes the options to present for filter f.
//
// With no filter applied every distinct non-empty value is returned. Otherwise
// each dimension is derived from the products matching f with that
// dimension's own selection removed, so a selected dimension keeps offering
// the values it can be widened to.
func AvailableFacets(ctx context.Context, src FacetSource, f Filter) (*Facets, error) {
	if f.IsEmpty() {
		rows, err := src.FacetRows(ctx, Filter{})
		if err != nil {
			return nil, err
		}
		return collectFacets(rows), nil
	}

	rows, err := src.FacetRows(ctx, f)
	if err != nil {
		return nil, err
	}
	out := collectFacets(rows)
	for _, d := range dimensions {
		if !f.Active(d) {
			continue
		}
		wide, err := src.FacetRows(ctx, f.Without(d))
		if err != nil {
			return nil, err
		}
		out.take(d, collectFacets(wide))
	}
	return out, nil
}

func (fs *Facets) take(d Dimension, from *Facets) {
	switch d {
	case DimCategory:
		fs.Categories = from.Categories
	case DimManufacturer:
		fs.Manufacturers = from.Manufacturers
	case DimPattern:
		fs.Patterns = from.Patterns
	case DimCollection:
		fs.Collections = from.Collections
	case DimQuickShip:
		fs.HasQuickShip = from.HasQuickShip
	}
}

func collectFacets(rows []FacetRow) *Facets {
	categories := map[string]bool{}
	manufacturers := map[string]bool{}
	patterns := map[string]bool{}
	collections := map[string]bool{}
	out := &Facets{}
	for _, r := range rows {
		add(categories, r.Category)
		add(manufacturers, r.Manufacturer)
		add(patterns, r.Pattern)
		add(collections, r.Collection)
		if r.QuickShip {
			out.HasQuickShip = true
		}
	}
	out.Categories = sortedKeys(categories)
	out.Manufacturers = sortedKeys(manufacturers)
	out.Patterns = sortedKeys(patterns)
	out.Collections = sortedKeys(collections)
	return out
}

func add(set map[string]bool, v *string) {
	if v != nil && *v != "" {
		set[*v] = true
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

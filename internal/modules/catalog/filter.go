package catalog

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/lib/pq"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
)

// Dimension identifies one facet of the product filter.
type Dimension int

const (
	DimCategory Dimension = iota
	DimManufacturer
	DimPattern
	DimCollection
	DimQuickShip
)

var dimensions = []Dimension{DimCategory, DimManufacturer, DimPattern, DimCollection, DimQuickShip}

// Filter is the set of facet selections of a catalog query. Values within a
// dimension are alternatives; dimensions combine with AND.
type Filter struct {
	Categories    []string
	Manufacturers []string
	Patterns      []string
	Collection    string
	QuickShip     bool
	// Search narrows by a case-insensitive title or SKU substring. It is not a
	// facet dimension.
	Search string
}

// ParseFilter reads the catalog filter from query parameters. Facet values
// arrive as comma separated lists of individually base64 encoded strings.
func ParseFilter(q url.Values) (Filter, error) {
	var f Filter
	var err error
	if f.Categories, err = decodeList(q.Get("category_b64")); err != nil {
		return f, apperr.Validation("invalid category_b64: %v", err)
	}
	if f.Manufacturers, err = decodeList(q.Get("manufacturer_b64")); err != nil {
		return f, apperr.Validation("invalid manufacturer_b64: %v", err)
	}
	if f.Patterns, err = decodeList(q.Get("pattern_b64")); err != nil {
		return f, apperr.Validation("invalid pattern_b64: %v", err)
	}
	collections, err := decodeList(q.Get("collection_b64"))
	if err != nil {
		return f, apperr.Validation("invalid collection_b64: %v", err)
	}
	if len(collections) > 0 {
		f.Collection = collections[0]
	}
	f.QuickShip = q.Get("quickShip") == "true"
	f.Search = strings.TrimSpace(q.Get("search"))
	return f, nil
}

// EncodeValue is the inverse of the per-value decoding ParseFilter applies.
func EncodeValue(v string) string {
	return base64.StdEncoding.EncodeToString([]byte(v))
}

func decodeList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := decodeValue(part)
		if err != nil {
			return nil, err
		}
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

// decodeValue accepts the standard and URL-safe alphabets, padded or not.
// A '+' turned into a space by form decoding is restored first.
func decodeValue(s string) (string, error) {
	s = strings.ReplaceAll(s, " ", "+")
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			return string(b), nil
		}
	}
	return "", fmt.Errorf("%q is not base64", s)
}

// IsEmpty reports whether no facet or search filter is applied.
func (f Filter) IsEmpty() bool {
	return len(f.Categories) == 0 && len(f.Manufacturers) == 0 && len(f.Patterns) == 0 &&
		f.Collection == "" && !f.QuickShip && f.Search == ""
}

// Active reports whether dimension d carries a selection.
func (f Filter) Active(d Dimension) bool {
	switch d {
	case DimCategory:
		return len(f.Categories) > 0
	case DimManufacturer:
		return len(f.Manufacturers) > 0
	case DimPattern:
		return len(f.Patterns) > 0
	case DimCollection:
		return f.Collection != ""
	case DimQuickShip:
		return f.QuickShip
	}
	return false
}

// Without returns a copy of f with dimension d cleared.
func (f Filter) Without(d Dimension) Filter {
	switch d {
	case DimCategory:
		f.Categories = nil
	case DimManufacturer:
		f.Manufacturers = nil
	case DimPattern:
		f.Patterns = nil
	case DimCollection:
		f.Collection = ""
	case DimQuickShip:
		f.QuickShip = false
	}
	return f
}

// Where renders f as an SQL predicate over the products table. Placeholders
// are numbered from start; the returned args match them in order. An empty
// filter yields "TRUE".
func (f Filter) Where(start int) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	n := start
	anyOf := func(col string, values []string) {
		if len(values) == 0 {
			return
		}
		clauses = append(clauses, fmt.Sprintf("%s = ANY($%d)", col, n))
		args = append(args, pq.Array(values))
		n++
	}

	anyOf("category", f.Categories)
	anyOf("manufacturer", f.Manufacturers)
	anyOf("pattern", f.Patterns)
	if f.Collection != "" {
		clauses = append(clauses, fmt.Sprintf("aqcat = $%d", n))
		args = append(args, f.Collection)
		n++
	}
	if f.QuickShip {
		clauses = append(clauses, "quick_ship = TRUE")
	}
	if f.Search != "" {
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR sku ILIKE $%d)", n, n))
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n++
	}

	if len(clauses) == 0 {
		return "TRUE", nil
	}
	return strings.Join(clauses, " AND "), args
}

// Match evaluates the same predicate as Where against one product.
func (f Filter) Match(p *Product) bool {
	if len(f.Categories) > 0 && !oneOf(p.Category, f.Categories) {
		return false
	}
	if len(f.Manufacturers) > 0 && !oneOf(p.Manufacturer, f.Manufacturers) {
		return false
	}
	if len(f.Patterns) > 0 && !oneOf(p.Pattern, f.Patterns) {
		return false
	}
	if f.Collection != "" && (p.Collection == nil || *p.Collection != f.Collection) {
		return false
	}
	if f.QuickShip && (p.QuickShip == nil || !*p.QuickShip) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.SKU), needle) {
			return false
		}
	}
	return true
}

func oneOf(v *string, set []string) bool {
	if v == nil {
		return false
	}
	for _, s := range set {
		if *v == s {
			return true
		}
	}
	return false
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

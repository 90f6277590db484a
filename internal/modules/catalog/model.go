package catalog

import "time"

// Product is a catalog item. Its id is assigned by the upstream ERP.
type Product struct {
	ID              int64     `json:"id"`
	SKU             string    `json:"sku"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	LongDescription string    `json:"longDescription"`
	Manufacturer    *string   `json:"manufacturer"`
	Category        *string   `json:"category"`
	UnitOfMeasure   string    `json:"unitOfMeasure"`
	QtyAvailable    *int      `json:"qtyAvailable"` // nil means unknown or unlimited
	Tags            []string  `json:"tags"`
	Collection      *string   `json:"aqcat"`
	Pattern         *string   `json:"pattern"`
	QuickShip       *bool     `json:"quickShip"`
	Images          []string  `json:"images"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProductRecord is the payload of the product sync and admin endpoints.
type ProductRecord struct {
	TrxProductID    int64    `json:"trx_product_id"`
	SKU             string   `json:"sku"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	LongDescription string   `json:"long_description"`
	Manufacturer    *string  `json:"manufacturer"`
	Category        *string  `json:"category"`
	UnitOfMeasure   string   `json:"unit_of_measure"`
	QtyAvailable    *int     `json:"qty_available"`
	Tags            []string `json:"tags"`
	Aqcat           *string  `json:"aqcat"`
	Pattern         *string  `json:"pattern"`
	QuickShip       *bool    `json:"quick_ship"`
	Images          []string `json:"images"`
}

// Query is a page request against the catalog.
type Query struct {
	Filter   Filter
	Sort     string
	Page     int
	PageSize int
}

// Pagination describes the position of a page within the result set.
type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// FilterState echoes the applied selections next to the available options.
type FilterState struct {
	AppliedCategories    []string `json:"appliedCategories"`
	AppliedManufacturers []string `json:"appliedManufacturers"`
	AppliedPatterns      []string `json:"appliedPatterns"`
	AppliedCollection    string   `json:"appliedCollection"`
	AppliedQuickShip     bool     `json:"appliedQuickShip"`
	*Facets
}

// ProductPage is the response of a catalog listing.
type ProductPage struct {
	Products   []*Product  `json:"products"`
	Pagination Pagination  `json:"pagination"`
	Filters    FilterState `json:"filters"`
}

const (
	defaultPageSize = 24
	maxPageSize     = 100
)

var sortOrders = map[string]string{
	"title_asc":  "title ASC, id ASC",
	"title_desc": "title DESC, id ASC",
	"sku_asc":    "sku ASC, id ASC",
	"newest":     "created_at DESC, id DESC",
}

// orderBy resolves a sort key to a whitelisted ORDER BY clause.
func orderBy(sort string) string {
	if o, ok := sortOrders[sort]; ok {
		return o
	}
	return sortOrders["title_asc"]
}

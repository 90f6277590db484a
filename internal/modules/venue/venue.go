package venue

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/supply-storefront/internal/modules/catalog"
	"github.com/georgemunganga/supply-storefront/internal/modules/pricing"
)

// Venue is a pricing and catalog context, such as one restaurant property.
// Its id is assigned by the upstream ERP.
type Venue struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Key is the venue id as it appears in cart lines and pricing requests.
func (v *Venue) Key() string { return strconv.FormatInt(v.ID, 10) }

// Record is one entry of the venue-products sync payload, and the admin
// create/update payload. A nil TrxProductIDs on admin update keeps the
// current product set.
type Record struct {
	TrxVenueID    int64   `json:"trx_venue_id"`
	Name          string  `json:"name"`
	TrxProductIDs []int64 `json:"trx_product_ids"`
}

// Product is a catalog product as offered within a venue.
type Product struct {
	*catalog.Product
	Price *decimal.Decimal `json:"price"`
}

// ProductPage is one page of a venue catalog.
type ProductPage struct {
	Venue         *Venue               `json:"venue"`
	Products      []*Product           `json:"products"`
	Pagination    catalog.Pagination   `json:"pagination"`
	PricingErrors []pricing.PriceError `json:"pricingErrors"`
}

// Viewer is the session state venue browsing depends on.
type Viewer struct {
	Venues    []int64
	AllVenues bool
	SeePrices bool
}

func (v Viewer) canAccess(id int64) bool {
	if v.AllVenues {
		return true
	}
	for _, vid := range v.Venues {
		if vid == id {
			return true
		}
	}
	return false
}

package cart

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a cart line joined with the product and venue it refers to.
type Item struct {
	ProductID     int64            `json:"productId"`
	Quantity      int              `json:"quantity"`
	VenueID       string           `json:"venueId"`
	VenueName     string           `json:"venueName"`
	SKU           string           `json:"sku"`
	Title         string           `json:"title"`
	UnitOfMeasure string           `json:"unitOfMeasure"`
	Image         *string          `json:"image"`
	Price         *decimal.Decimal `json:"price"` // nil: quote required or not entitled
}

func (it *Item) productKey() string { return strconv.FormatInt(it.ProductID, 10) }

// Cart is a customer's saved cart. A customer without a saved cart has an
// empty one with a nil ID.
type Cart struct {
	ID         *uuid.UUID `json:"id"`
	CustomerID int64      `json:"customerId"`
	Items      []*Item    `json:"items"`
	UpdatedAt  *time.Time `json:"updatedAt"`
}

// ItemInput is a cart line as submitted by the client.
type ItemInput struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	VenueID   string `json:"venueId"`
}

// SaveRequest replaces the cart contents.
type SaveRequest struct {
	Items []ItemInput `json:"items"`
}

// SubmitRequest is the checkout payload.
type SubmitRequest struct {
	Items         []ItemInput `json:"items"`
	Comment       string      `json:"comment"`
	PurchaseOrder string      `json:"purchaseOrder"`
	Venue         string      `json:"venue"`
	TrxCustomerID int64       `json:"trxCustomerId"`
}

// Viewer is the session state the cart operations depend on.
type Viewer struct {
	CustomerID int64
	Email      string
	SeePrices  bool
	Venues     []int64
	AllVenues  bool // sales team and superusers
}

func (v Viewer) canUseVenue(venueID string) bool {
	if venueID == mainCatalog || v.AllVenues {
		return true
	}
	id, err := strconv.ParseInt(venueID, 10, 64)
	if err != nil {
		return false
	}
	for _, vid := range v.Venues {
		if vid == id {
			return true
		}
	}
	return false
}

package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one priced (or unpriced) item of a submitted cart.
type Line struct {
	ProductID     int64            `json:"productId"`
	Title         string           `json:"title"`
	SKU           string           `json:"sku"`
	UnitOfMeasure string           `json:"unitOfMeasure"`
	Quantity      int              `json:"quantity"`
	VenueID       string           `json:"venueId"`
	VenueName     string           `json:"venueName"`
	Price         *decimal.Decimal `json:"price"` // nil when a quote is required
}

// Subtotal is price × quantity, or nil when the line is unpriced.
func (l Line) Subtotal() *decimal.Decimal {
	if l.Price == nil {
		return nil
	}
	s := l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
	return &s
}

// Details is everything known about an order at checkout.
type Details struct {
	Reference     string    `json:"reference"`
	CustomerID    int64     `json:"trxCustomerId"`
	CustomerEmail string    `json:"customerEmail"`
	CustomerName  string    `json:"customerName"`
	PurchaseOrder string    `json:"purchaseOrder"`
	Venue         string    `json:"venue"`
	Comment       string    `json:"comment"`
	Lines         []Line    `json:"items"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// Email is a rendered plain-text message.
type Email struct {
	Subject string
	Body    string
}

// NewReference creates a human-readable order reference: ORD-YYYYMMDD-XXXX
func NewReference(now time.Time) string {
	date := now.UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}

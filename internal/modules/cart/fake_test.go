package cart

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
	"github.com/georgemunganga/supply-storefront/internal/modules/customer"
	"github.com/georgemunganga/supply-storefront/internal/modules/order"
	"github.com/georgemunganga/supply-storefront/internal/modules/pricing"
	"github.com/georgemunganga/supply-storefront/internal/notify"
)

// fakePrices quotes fixed prices per product and fails whole venues listed
// in failVenue.
type fakePrices struct {
	mu        sync.Mutex
	prices    map[string]string
	failVenue map[string]bool
	calls     map[string][]string
}

func newFakePrices(prices map[string]string, failVenues ...string) *fakePrices {
	f := &fakePrices{prices: prices, failVenue: map[string]bool{}, calls: map[string][]string{}}
	for _, v := range failVenues {
		f.failVenue[v] = true
	}
	return f
}

func (f *fakePrices) Fetch(_ context.Context, venueID string, productIDs []string) (*pricing.Result, error) {
	f.mu.Lock()
	f.calls[venueID] = append(f.calls[venueID], productIDs...)
	f.mu.Unlock()

	if f.failVenue[venueID] {
		return nil, errors.Newf("pricing unavailable for venue %s", venueID)
	}
	res := &pricing.Result{}
	for _, id := range productIDs {
		p, ok := f.prices[id]
		if !ok {
			res.Errors = append(res.Errors, pricing.PriceError{ProductID: id, Error: "no price"})
			continue
		}
		res.Prices = append(res.Prices, pricing.Price{ProductID: id, Price: decimal.RequireFromString(p)})
	}
	return res, nil
}

type product struct {
	sku, title string
}

type memRepo struct {
	products map[int64]product
	venues   map[string]string
	carts    map[int64][]ItemInput
	cleared  []int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		products: map[int64]product{
			1: {"PL-1", "Dinner Plate"},
			2: {"BW-2", "Soup Bowl"},
			3: {"GL-3", "Wine Glass"},
		},
		venues: map[string]string{"5": "Harbor Hotel", "6": "Lake Lodge"},
		carts:  map[int64][]ItemInput{},
	}
}

func (r *memRepo) Get(ctx context.Context, customerID int64) (*Cart, error) {
	items, err := r.Describe(ctx, r.carts[customerID])
	if err != nil {
		return nil, err
	}
	return &Cart{CustomerID: customerID, Items: items}, nil
}

func (r *memRepo) Save(_ context.Context, customerID int64, items []ItemInput) error {
	r.carts[customerID] = append([]ItemInput(nil), items...)
	return nil
}

func (r *memRepo) Clear(_ context.Context, customerID int64) error {
	r.cleared = append(r.cleared, customerID)
	delete(r.carts, customerID)
	return nil
}

func (r *memRepo) Describe(_ context.Context, items []ItemInput) ([]*Item, error) {
	out := []*Item{}
	for _, it := range items {
		p, ok := r.products[it.ProductID]
		if !ok {
			return nil, apperr.Validation("product %d does not exist", it.ProductID)
		}
		out = append(out, &Item{
			ProductID: it.ProductID, Quantity: it.Quantity, VenueID: it.VenueID,
			VenueName: r.venues[it.VenueID], SKU: p.sku, Title: p.title,
		})
	}
	return out, nil
}

type recordingMailer struct {
	fail map[string]bool // by first recipient
	sent []notify.Message
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	if len(msg.To) > 0 && m.fail[msg.To[0]] {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, msg)
	return nil
}

type recordingForwarder struct {
	err       error
	forwarded []order.Details
}

func (f *recordingForwarder) Forward(_ context.Context, d order.Details) error {
	f.forwarded = append(f.forwarded, d)
	return f.err
}

type memCustomers map[int64]*customer.Customer

func (m memCustomers) GetCustomer(_ context.Context, id int64) (*customer.Customer, error) {
	c, ok := m[id]
	if !ok {
		return nil, apperr.NotFound("customer %d not found", id)
	}
	return c, nil
}

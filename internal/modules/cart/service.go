package cart

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
	"github.com/georgemunganga/supply-storefront/internal/modules/customer"
	"github.com/georgemunganga/supply-storefront/internal/modules/order"
	"github.com/georgemunganga/supply-storefront/internal/notify"
)

// Service defines cart and checkout business logic.
type Service interface {
	// Get returns the viewer's cart, priced when the viewer is entitled.
	Get(ctx context.Context, v Viewer) (*Cart, error)

	// Save replaces the viewer's cart with items and returns the result.
	Save(ctx context.Context, v Viewer, items []ItemInput) (*Cart, error)

	Clear(ctx context.Context, v Viewer) error

	// Submit prices the submitted items, emails the order and clears the
	// submitter's cart. Sales team members may order on behalf of another
	// customer, who then receives the customer copy.
	Submit(ctx context.Context, v Viewer, req SubmitRequest) (*order.Details, error)
}

// Customers resolves the account an order is placed for.
type Customers interface {
	GetCustomer(ctx context.Context, id int64) (*customer.Customer, error)
}

type service struct {
	repo      Repository
	prices    PriceSource
	customers Customers
	mailer    notify.Mailer
	orderTo   []string
	forwarder order.Forwarder
	now       func() time.Time
}

// NewService wires the cart service. Seller copies of submitted orders go
// to orderTo.
func NewService(repo Repository, prices PriceSource, customers Customers, mailer notify.Mailer, orderTo []string, forwarder order.Forwarder) Service {
	return &service{
		repo:      repo,
		prices:    prices,
		customers: customers,
		mailer:    mailer,
		orderTo:   orderTo,
		forwarder: forwarder,
		now:       time.Now,
	}
}

func (s *service) Get(ctx context.Context, v Viewer) (*Cart, error) {
	c, err := s.repo.Get(ctx, v.CustomerID)
	if err != nil {
		return nil, err
	}
	EnrichPrices(ctx, s.prices, c.Items, v.SeePrices)
	return c, nil
}

func (s *service) Save(ctx context.Context, v Viewer, items []ItemInput) (*Cart, error) {
	items, err := normalize(v, items)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, v.CustomerID, items); err != nil {
		return nil, err
	}
	return s.Get(ctx, v)
}

func (s *service) Clear(ctx context.Context, v Viewer) error {
	return s.repo.Clear(ctx, v.CustomerID)
}

func (s *service) Submit(ctx context.Context, v Viewer, req SubmitRequest) (*order.Details, error) {
	items, err := normalize(v, req.Items)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.Validation("cart is empty")
	}
	customerID := v.CustomerID
	if req.TrxCustomerID != 0 && req.TrxCustomerID != v.CustomerID {
		if !v.AllVenues {
			return nil, apperr.Forbidden("cannot submit an order for customer %d", req.TrxCustomerID)
		}
		customerID = req.TrxCustomerID
	}
	buyer, err := s.customers.GetCustomer(ctx, customerID)
	if apperr.IsNotFound(err) {
		return nil, apperr.Validation("unknown customer %d", customerID)
	}
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.Describe(ctx, items)
	if err != nil {
		return nil, err
	}
	EnrichPrices(ctx, s.prices, lines, v.SeePrices)

	now := s.now()
	d := &order.Details{
		Reference:     order.NewReference(now),
		CustomerID:    customerID,
		CustomerEmail: buyer.Email,
		CustomerName:  buyer.Name,
		PurchaseOrder: strings.TrimSpace(req.PurchaseOrder),
		Venue:         strings.TrimSpace(req.Venue),
		Comment:       strings.TrimSpace(req.Comment),
		SubmittedAt:   now,
	}
	for _, it := range lines {
		d.Lines = append(d.Lines, order.Line{
			ProductID:     it.ProductID,
			Title:         it.Title,
			SKU:           it.SKU,
			UnitOfMeasure: it.UnitOfMeasure,
			Quantity:      it.Quantity,
			VenueID:       it.VenueID,
			VenueName:     it.VenueName,
			Price:         it.Price,
		})
	}

	seller, ack, err := order.Compose(*d)
	if err != nil {
		return nil, err
	}
	if err := s.mailer.Send(ctx, notify.Message{To: s.orderTo, Subject: seller.Subject, Text: seller.Body}); err != nil {
		return nil, apperr.Upstream(err, "failed to send order email")
	}

	// Everything after the seller copy is best effort.
	if d.CustomerEmail != "" {
		if err := s.mailer.Send(ctx, notify.Message{To: []string{d.CustomerEmail}, Subject: ack.Subject, Text: ack.Body}); err != nil {
			log.Printf("order %s: customer copy to %s: %v", d.Reference, d.CustomerEmail, err)
		}
	}
	if err := s.forwarder.Forward(ctx, *d); err != nil {
		log.Printf("order %s: forward: %v", d.Reference, err)
	}
	// The submitted lines came from the submitter's own cart.
	if err := s.repo.Clear(ctx, v.CustomerID); err != nil {
		log.Printf("order %s: clear cart of customer %d: %v", d.Reference, v.CustomerID, err)
	}
	return d, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// normalize validates lines, defaults the venue to the main catalog and
// merges repeated (product, venue) pairs.
func normalize(v Viewer, items []ItemInput) ([]ItemInput, error) {
	type key struct {
		product int64
		venue   string
	}
	index := map[key]int{}
	out := make([]ItemInput, 0, len(items))
	for _, it := range items {
		it.VenueID = strings.TrimSpace(it.VenueID)
		if it.VenueID == "" {
			it.VenueID = mainCatalog
		}
		switch {
		case it.ProductID <= 0:
			return nil, apperr.Validation("productId is required")
		case it.Quantity < 1:
			return nil, apperr.Validation("quantity for product %d must be at least 1", it.ProductID)
		case !v.canUseVenue(it.VenueID):
			return nil, apperr.Forbidden("no access to venue %s", it.VenueID)
		}
		k := key{it.ProductID, it.VenueID}
		if i, ok := index[k]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[k] = len(out)
		out = append(out, it)
	}
	return out, nil
}

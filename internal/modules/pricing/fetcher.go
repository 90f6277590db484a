// Package pricing obtains venue prices from the external pricing service.
package pricing

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
)

// Price is a successful lookup.
type Price struct {
	ProductID string          `json:"productId"`
	Price     decimal.Decimal `json:"price"`
}

// PriceError is a failed lookup.
type PriceError struct {
	ProductID string `json:"productId"`
	Error     string `json:"error"`
}

// Result holds one outcome per requested product, either in Prices or in
// Errors.
type Result struct {
	Prices []Price      `json:"prices"`
	Errors []PriceError `json:"errors"`
}

// ByProduct indexes the successful prices by product id.
func (r *Result) ByProduct() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(r.Prices))
	for _, p := range r.Prices {
		m[p.ProductID] = p.Price
	}
	return m
}

// Fetcher looks prices up in paced batches. Batches run one after another
// with a fixed delay between them; the products of a batch are looked up
// concurrently.
type Fetcher struct {
	client    Client
	batchSize int
	delay     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewFetcher(client Client, batchSize int, delay time.Duration) *Fetcher {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Fetcher{client: client, batchSize: batchSize, delay: delay, sleep: sleepContext}
}

// Fetch prices productIDs within venueID. Individual failures are reported
// in the result and never fail the call. If ctx ends while waiting between
// batches, the products not yet looked up are reported as errors.
func (f *Fetcher) Fetch(ctx context.Context, venueID string, productIDs []string) (*Result, error) {
	venueID = strings.TrimSpace(venueID)
	if venueID == "" {
		return nil, apperr.Validation("venueId is required")
	}

	res := &Result{Prices: []Price{}, Errors: []PriceError{}}
	batches := partition(unique(productIDs), f.batchSize)
	for i, batch := range batches {
		if i > 0 {
			if err := f.sleep(ctx, f.delay); err != nil {
				for _, rest := range batches[i:] {
					for _, id := range rest {
						res.Errors = append(res.Errors, PriceError{ProductID: id, Error: "pricing cancelled: " + err.Error()})
					}
				}
				break
			}
		}
		f.fetchBatch(ctx, venueID, batch, res)
	}
	return res, nil
}

func (f *Fetcher) fetchBatch(ctx context.Context, venueID string, ids []string, res *Result) {
	prices := make([]decimal.Decimal, len(ids))
	errs := make([]error, len(ids))

	// Lookups never return an error to the group so one failure cannot
	// cancel its siblings.
	var g errgroup.Group
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			start := time.Now()
			prices[i], errs[i] = f.client.Price(ctx, venueID, id)
			observe(errs[i], time.Since(start))
			return nil
		})
	}
	g.Wait()

	for i, id := range ids {
		if errs[i] != nil {
			res.Errors = append(res.Errors, PriceError{ProductID: id, Error: errs[i].Error()})
			continue
		}
		res.Prices = append(res.Prices, Price{ProductID: id, Price: prices[i]})
	}
}

// ── helpers ──────────────────────────────────────────────────────────────────

func partition(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > 0 {
		n := size
		if n > len(ids) {
			n = len(ids)
		}
		out = append(out, ids[:n])
		ids = ids[n:]
	}
	return out
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

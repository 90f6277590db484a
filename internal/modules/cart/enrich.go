package cart

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/supply-storefront/internal/modules/pricing"
)

const mainCatalog = "0"

// PriceSource looks up prices for several products of one venue.
type PriceSource interface {
	Fetch(ctx context.Context, venueID string, productIDs []string) (*pricing.Result, error)
}

// EnrichPrices sets Price on every item whose venue returned one. Nothing is
// fetched unless seePrices is set. Main catalog items are never priced. Each
// venue is fetched independently; a venue whose lookup fails leaves its items
// unpriced without affecting the others.
func EnrichPrices(ctx context.Context, src PriceSource, items []*Item, seePrices bool) {
	if !seePrices {
		return
	}

	groups := map[string][]*Item{}
	for _, it := range items {
		if it.VenueID == "" || it.VenueID == mainCatalog {
			continue
		}
		groups[it.VenueID] = append(groups[it.VenueID], it)
	}

	var g errgroup.Group
	for venueID, group := range groups {
		venueID, group := venueID, group
		g.Go(func() error {
			ids := make([]string, 0, len(group))
			for _, it := range group {
				ids = append(ids, it.productKey())
			}
			res, err := src.Fetch(ctx, venueID, ids)
			if err != nil {
				log.Printf("cart: pricing venue %s: %v", venueID, err)
				return nil
			}
			for _, e := range res.Errors {
				log.Printf("cart: no price for product %s in venue %s: %s", e.ProductID, venueID, e.Error)
			}
			prices := res.ByProduct()
			for _, it := range group {
				if p, ok := prices[it.productKey()]; ok {
					p := p
					it.Price = &p
				}
			}
			return nil
		})
	}
	g.Wait()
}

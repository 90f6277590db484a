package pricing

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
	"github.com/georgemunganga/supply-storefront/internal/httpx"
	"github.com/georgemunganga/supply-storefront/internal/middleware"
	"github.com/georgemunganga/supply-storefront/internal/session"
)

// Handler exposes price lookups to price-entitled sessions.
type Handler struct{ fetcher *Fetcher }

func NewHandler(fetcher *Fetcher) *Handler { return &Handler{fetcher: fetcher} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.With(middleware.RequireSession).Get("/api/pricing", h.getPricing)
}

type singleResponse struct {
	Success bool            `json:"success"`
	Price   decimal.Decimal `json:"price"`
}

type batchResponse struct {
	Success bool         `json:"success"`
	Prices  []Price      `json:"prices"`
	Errors  []PriceError `json:"errors,omitempty"`
}

func (h *Handler) getPricing(w http.ResponseWriter, r *http.Request) {
	claims, _ := session.FromContext(r.Context())
	q := r.URL.Query()
	venueID := strings.TrimSpace(q.Get("venueId"))

	if !claims.SeePrices {
		httpx.Error(w, r, apperr.Forbidden("pricing is not enabled for this account"))
		return
	}
	if venueID == "" {
		httpx.Error(w, r, apperr.Validation("venueId is required"))
		return
	}
	if !claims.CanAccessVenue(venueID) {
		httpx.Error(w, r, apperr.Forbidden("no access to venue %s", venueID))
		return
	}

	if single := strings.TrimSpace(q.Get("productId")); single != "" {
		res, err := h.fetcher.Fetch(r.Context(), venueID, []string{single})
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		if len(res.Prices) == 0 {
			httpx.Error(w, r, apperr.Upstream(lookupError(res), "price lookup failed"))
			return
		}
		httpx.Respond(w, http.StatusOK, singleResponse{Success: true, Price: res.Prices[0].Price})
		return
	}

	ids := strings.Split(q.Get("productIds"), ",")
	if len(unique(ids)) == 0 {
		httpx.Error(w, r, apperr.Validation("productId or productIds is required"))
		return
	}
	res, err := h.fetcher.Fetch(r.Context(), venueID, ids)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, batchResponse{Success: true, Prices: res.Prices, Errors: res.Errors})
}

func lookupError(res *Result) error {
	if len(res.Errors) == 0 {
		return errors.New("no price returned")
	}
	return errors.New(res.Errors[0].Error)
}

package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/supply-storefront/internal/httpx"
	"github.com/georgemunganga/supply-storefront/internal/middleware"
	"github.com/georgemunganga/supply-storefront/internal/session"
)

// Handler exposes the authenticated customer's cart.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/", h.getCart)
		r.Post("/", h.saveCart)
		r.Put("/", h.saveCart)
		r.Delete("/", h.clearCart)
		r.Post("/submit", h.submit)
	})
}

// ViewerFrom maps session claims onto the cart's view of the caller.
func ViewerFrom(c *session.Claims) Viewer {
	return Viewer{
		CustomerID: c.CustomerID,
		Email:      c.Email,
		SeePrices:  c.SeePrices,
		Venues:     c.Venues,
		AllVenues:  c.IsSuperuser || c.IsSalesTeam,
	}
}

func viewer(r *http.Request) Viewer {
	c, _ := session.FromContext(r.Context())
	return ViewerFrom(c)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), viewer(r))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, c)
}

func (h *Handler) saveCart(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.service.Save(r.Context(), viewer(r), req.Items)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, c)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), viewer(r)); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	d, err := h.service.Submit(r.Context(), viewer(r), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"success": true, "reference": d.Reference})
}

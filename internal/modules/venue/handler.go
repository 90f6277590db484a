package venue

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/supply-storefront/internal/httpx"
	"github.com/georgemunganga/supply-storefront/internal/middleware"
	"github.com/georgemunganga/supply-storefront/internal/session"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Post("/api/venue-products", h.upsertVenueProducts)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/api/venues", h.listVenues)
		r.Get("/api/venues/{id}/products", h.venueProducts)
	})

	router.Route("/api/admin/venues", func(r chi.Router) {
		r.Use(middleware.RequireSuperuser)
		r.Get("/", h.listAll)
		r.Post("/", h.createVenue)
		r.Get("/{id}", h.getVenue)
		r.Put("/{id}", h.updateVenue)
		r.Delete("/{id}", h.deleteVenue)
	})
}

func viewer(r *http.Request) Viewer {
	c, _ := session.FromContext(r.Context())
	return Viewer{Venues: c.Venues, AllVenues: c.IsSuperuser || c.IsSalesTeam, SeePrices: c.SeePrices}
}

func (h *Handler) upsertVenueProducts(w http.ResponseWriter, r *http.Request) {
	var recs []Record
	if err := httpx.Decode(r, &recs); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, h.service.UpsertVenueProducts(r.Context(), recs))
}

func (h *Handler) listVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.service.ListVenues(r.Context(), viewer(r))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"venues": venues})
}

func (h *Handler) venueProducts(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(chi.URLParam(r, "id"), "venue id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	page, err := h.service.Products(r.Context(), viewer(r), id,
		httpx.IntParam(r, "page", 1, 1, 1<<20),
		httpx.IntParam(r, "pageSize", 24, 1, 100))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, page)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	venues, err := h.service.ListVenues(r.Context(), Viewer{AllVenues: true})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"venues": venues})
}

func (h *Handler) getVenue(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(chi.URLParam(r, "id"), "venue id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	v, err := h.service.GetVenue(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, v)
}

func (h *Handler) createVenue(w http.ResponseWriter, r *http.Request) {
	var rec Record
	if err := httpx.Decode(r, &rec); err != nil {
		httpx.Error(w, r, err)
		return
	}
	v, err := h.service.CreateVenue(r.Context(), rec)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, v)
}

func (h *Handler) updateVenue(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(chi.URLParam(r, "id"), "venue id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var rec Record
	if err := httpx.Decode(r, &rec); err != nil {
		httpx.Error(w, r, err)
		return
	}
	v, err := h.service.UpdateVenue(r.Context(), id, rec)
	if err != nil {
		httpx.ErrorWithCause(w, r, "failed to update venue", err)
		return
	}
	httpx.Respond(w, http.StatusOK, v)
}

func (h *Handler) deleteVenue(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(chi.URLParam(r, "id"), "venue id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.DeleteVenue(r.Context(), id); err != nil {
		httpx.ErrorWithCause(w, r, "failed to delete venue", err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]bool{"success": true})
}

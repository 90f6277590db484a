package customer

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/supply-storefront/internal/httpx"
	"github.com/georgemunganga/supply-storefront/internal/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Post("/api/customers", h.upsertCustomers)

	router.Route("/api/admin/customers", func(r chi.Router) {
		r.Use(middleware.RequireSuperuser)
		r.Get("/", h.listCustomers)
		r.Post("/", h.createCustomer)
		r.Get("/{id}", h.getCustomer)
		r.Put("/{id}", h.updateCustomer)
		r.Delete("/{id}", h.deleteCustomer)
	})
}

func (h *Handler) upsertCustomers(w http.ResponseWriter, r *http.Request) {
	var recs []Record
	if err := httpx.Decode(r, &recs); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, h.service.UpsertCustomers(r.Context(), recs))
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListCustomers(r.Context(),
		r.URL.Query().Get("search"),
		httpx.IntParam(r, "page", 1, 1, 1<<20),
		httpx.IntParam(r, "pageSize", 50, 1, 200))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, page)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(chi.URLParam(r, "id"), "customer id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, c)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var rec AdminRecord
	if err := httpx.Decode(r, &rec); err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.service.CreateCustomer(r.Context(), rec)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, c)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(chi.URLParam(r, "id"), "customer id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var rec AdminRecord
	if err := httpx.Decode(r, &rec); err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.service.UpdateCustomer(r.Context(), id, rec)
	if err != nil {
		httpx.ErrorWithCause(w, r, "failed to update customer", err)
		return
	}
	httpx.Respond(w, http.StatusOK, c)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(chi.URLParam(r, "id"), "customer id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		httpx.ErrorWithCause(w, r, "failed to delete customer", err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]bool{"success": true})
}

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/supply-storefront/internal/httpx"
	"github.com/georgemunganga/supply-storefront/internal/middleware"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.upsertProducts) // API key enforced by middleware.APIKey
		r.Get("/{id}", h.getProduct)
	})
	r.Route("/api/admin/products", func(r chi.Router) {
		r.Use(middleware.RequireSuperuser)
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{id}", h.getProduct)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	page, err := h.service.ListProducts(r.Context(), Query{
		Filter:   filter,
		Sort:     r.URL.Query().Get("sort"),
		Page:     httpx.IntParam(r, "page", 1, 1, 1<<20),
		PageSize: httpx.IntParam(r, "pageSize", defaultPageSize, 1, maxPageSize),
	})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, page)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(chi.URLParam(r, "id"), "product id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) upsertProducts(w http.ResponseWriter, r *http.Request) {
	var recs []ProductRecord
	if err := httpx.Decode(r, &recs); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, h.service.UpsertProducts(r.Context(), recs))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var rec ProductRecord
	if err := httpx.Decode(r, &rec); err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), rec)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(chi.URLParam(r, "id"), "product id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var rec ProductRecord
	if err := httpx.Decode(r, &rec); err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), id, rec)
	if err != nil {
		httpx.ErrorWithCause(w, r, "failed to update product", err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ID(chi.URLParam(r, "id"), "product id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httpx.ErrorWithCause(w, r, "failed to delete product", err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]bool{"success": true})
}

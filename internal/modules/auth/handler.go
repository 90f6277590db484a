package auth

import (
	"net/http"
	"time"

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
	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/otp/request", h.requestCode)
		r.Post("/otp/verify", h.verifyCode)
		r.With(middleware.RequireSession).Get("/session", h.currentSession)
		r.Post("/logout", h.logout)
	})
}

func (h *Handler) requestCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.RequestCode(r.Context(), req.Email); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "If the address belongs to an account, a sign-in code is on its way.",
	})
}

func (h *Handler) verifyCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	s, err := h.service.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.Respond(w, http.StatusOK, s)
}

func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) {
	c, _ := session.FromContext(r.Context())
	httpx.Respond(w, http.StatusOK, map[string]interface{}{"session": c})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.Respond(w, http.StatusOK, map[string]bool{"success": true})
}

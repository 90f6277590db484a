package customer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/supply-storefront/internal/session"
)

func newRouter(repo *memRepo, claims *session.Claims) *chi.Mux {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if claims != nil {
				req = req.WithContext(session.NewContext(req.Context(), claims))
			}
			next.ServeHTTP(w, req)
		})
	})
	NewHandler(NewService(repo, &fakeSMS{})).RegisterRoutes(r)
	return r
}

func TestUpsertCustomersEndpointReportsPartialFailure(t *testing.T) {
	repo := newMemRepo(&Customer{ID: 7, Email: "owner@harbor.test"})
	body := `[
		{"trx_customer_id": 100, "email": "chef@bistro.test", "name": "Bistro", "trx_venue_ids": [5]},
		{"trx_customer_id": 0, "email": "nobody@bistro.test"},
		{"trx_customer_id": 101, "email": "OWNER@harbor.test"}
	]`
	rec := httptest.NewRecorder()
	newRouter(repo, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Processed int `json:"processed"`
		Errors    []struct {
			Key     string `json:"key"`
			Message string `json:"message"`
		} `json:"errors"`
		Results []struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Processed)
	require.Len(t, res.Results, 1)
	assert.Equal(t, int64(100), res.Results[0].ID)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "0", res.Errors[0].Key)
	assert.Equal(t, "trx_customer_id is required", res.Errors[0].Message)
	assert.Equal(t, "101", res.Errors[1].Key)
}

func TestUpsertCustomersEndpointRejectsMalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(newMemRepo(), nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{"not":"a list"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminDeleteCustomerCarriesStoreMessage(t *testing.T) {
	admin := &session.Claims{CustomerID: 1, IsSuperuser: true}
	rec := httptest.NewRecorder()
	newRouter(newMemRepo(), admin).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/customers/77", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"failed to delete customer: customer 77 not found"}`, rec.Body.String())
}

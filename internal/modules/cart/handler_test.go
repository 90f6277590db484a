package cart

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/supply-storefront/internal/session"
)

var chef = &session.Claims{CustomerID: 9, Email: "chef@bistro.test", Venues: []int64{5}, SeePrices: true}

func (f *fixture) router(claims *session.Claims) *chi.Mux {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if claims != nil {
				req = req.WithContext(session.NewContext(req.Context(), claims))
			}
			next.ServeHTTP(w, req)
		})
	})
	NewHandler(f.svc).RegisterRoutes(r)
	return r
}

func send(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestSubmitEndpointReturnsReference(t *testing.T) {
	f := newFixture()
	rec := send(f.router(chef), http.MethodPost, "/api/cart/submit",
		`{"items":[{"productId":1,"quantity":2,"venueId":"5"}],"purchaseOrder":"PO-7"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Success   bool   `json:"success"`
		Reference string `json:"reference"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{4}$`, body.Reference)
	require.Len(t, f.forwarder.forwarded, 1)
	assert.Equal(t, body.Reference, f.forwarder.forwarded[0].Reference)
}

func TestSubmitEndpointSellerMailFailure(t *testing.T) {
	f := newFixture()
	f.mailer.fail[sellerInbox] = true
	rec := send(f.router(chef), http.MethodPost, "/api/cart/submit", `{"items":[{"productId":1,"quantity":1}]}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"failed to send order email"}`, rec.Body.String())
	assert.Empty(t, f.forwarder.forwarded)
}

func TestCartEndpointsRequireSession(t *testing.T) {
	f := newFixture()
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		rec := send(f.router(nil), method, "/api/cart", `{"items":[]}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, method)
	}
	rec := send(f.router(nil), http.MethodPost, "/api/cart/submit", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaveAndGetCartEndpoints(t *testing.T) {
	f := newFixture()
	router := f.router(chef)

	rec := send(router, http.MethodPut, "/api/cart", `{"items":[{"productId":2,"quantity":3,"venueId":"5"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = send(router, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var c struct {
		Items []struct {
			ProductID int64            `json:"productId"`
			Quantity  int              `json:"quantity"`
			Price     *decimal.Decimal `json:"price"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(2), c.Items[0].ProductID)
	assert.Equal(t, 3, c.Items[0].Quantity)
	require.NotNil(t, c.Items[0].Price)
	assert.True(t, decimal.RequireFromString("3.50").Equal(*c.Items[0].Price))

	rec = send(router, http.MethodPost, "/api/cart", `{"items":[{"productId":1,"quantity":1,"venueId":"6"}]}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = send(router, http.MethodDelete, "/api/cart", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.repo.carts[9])
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/supply-storefront/internal/session"
)

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }

func TestAPIKeyGuardsOnlyPostOnSyncPaths(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sync-key"), bcrypt.MinCost)
	require.NoError(t, err)
	h := APIKey(string(hash), "/api/customers", "/api/products")(http.HandlerFunc(ok))

	tests := []struct {
		name   string
		method string
		path   string
		key    string
		want   int
	}{
		{"get passes", http.MethodGet, "/api/products", "", http.StatusNoContent},
		{"other path passes", http.MethodPost, "/api/cart", "", http.StatusNoContent},
		{"missing key", http.MethodPost, "/api/customers", "", http.StatusUnauthorized},
		{"wrong key", http.MethodPost, "/api/customers", "nope", http.StatusUnauthorized},
		{"good key", http.MethodPost, "/api/customers", "sync-key", http.StatusNoContent},
		{"trailing slash", http.MethodPost, "/api/products/", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuthenticateAndRequire(t *testing.T) {
	iss := session.NewIssuer("secret", time.Hour)
	userToken, err := iss.Issue(session.Claims{CustomerID: 1})
	require.NoError(t, err)
	adminToken, err := iss.Issue(session.Claims{CustomerID: 2, IsSuperuser: true})
	require.NoError(t, err)

	sessionOnly := Authenticate(iss)(RequireSession(http.HandlerFunc(ok)))
	adminOnly := Authenticate(iss)(RequireSuperuser(http.HandlerFunc(ok)))

	do := func(h http.Handler, setup func(*http.Request)) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		setup(req)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do(sessionOnly, func(*http.Request) {}))
	assert.Equal(t, http.StatusUnauthorized, do(sessionOnly, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer garbage")
	}))
	assert.Equal(t, http.StatusNoContent, do(sessionOnly, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+userToken)
	}))
	assert.Equal(t, http.StatusNoContent, do(sessionOnly, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: userToken})
	}))
	assert.Equal(t, http.StatusForbidden, do(adminOnly, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+userToken)
	}))
	assert.Equal(t, http.StatusNoContent, do(adminOnly, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+adminToken)
	}))
}

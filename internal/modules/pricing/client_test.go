package pricing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "42", r.URL.Query().Get("venue_id"))
		switch r.URL.Query().Get("product_id") {
		case "123":
			http.Error(w, "upstream exploded", http.StatusInternalServerError)
		case "456":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"price": 9.99, "currency": "USD"}`)
		case "789":
			fmt.Fprint(w, "<html>maintenance</html>")
		case "999":
			fmt.Fprint(w, `{"currency": "USD"}`)
		default:
			fmt.Fprint(w, `{"price": "12.50"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchIsolatesFailingProducts(t *testing.T) {
	srv := pricingServer(t)
	f := NewFetcher(NewHTTPClient(srv.URL, "secret", time.Second), 5, 0)

	res, err := f.Fetch(context.Background(), "42", []string{"123", "456"})
	require.NoError(t, err)

	require.Len(t, res.Prices, 1)
	assert.Equal(t, "456", res.Prices[0].ProductID)
	assert.True(t, decimal.RequireFromString("9.99").Equal(res.Prices[0].Price))
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "123", res.Errors[0].ProductID)
	assert.Contains(t, res.Errors[0].Error, "500")
}

func TestHTTPClientRejectsMalformedResponses(t *testing.T) {
	srv := pricingServer(t)
	c := NewHTTPClient(srv.URL, "secret", time.Second)

	_, err := c.Price(context.Background(), "42", "789")
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = c.Price(context.Background(), "42", "999")
	assert.ErrorContains(t, err, "no price")

	p, err := c.Price(context.Background(), "42", "1")
	require.NoError(t, err)
	assert.Equal(t, "12.5", p.String())
}

func TestHTTPClientSendsAPIKey(t *testing.T) {
	srv := pricingServer(t)
	_, err := NewHTTPClient(srv.URL, "wrong", time.Second).Price(context.Background(), "42", "1")
	assert.ErrorContains(t, err, "401")
}

func TestHTTPClientTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPClient(srv.URL, "secret", 50*time.Millisecond).Price(context.Background(), "42", "1")
	assert.Error(t, err)
}

func TestHTTPClientUnconfigured(t *testing.T) {
	_, err := NewHTTPClient("", "", time.Second).Price(context.Background(), "1", "1")
	assert.ErrorContains(t, err, "not configured")
}

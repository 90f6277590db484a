package pricing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// Client quotes the negotiated unit price of one product within a venue.
type Client interface {
	Price(ctx context.Context, venueID, productID string) (decimal.Decimal, error)
}

type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient calls GET {baseURL}?venue_id=&product_id= with the API key in
// the X-API-Key header. Every request is bounded by timeout.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type priceResponse struct {
	Price *decimal.Decimal `json:"price"`
}

func (c *httpClient) Price(ctx context.Context, venueID, productID string) (decimal.Decimal, error) {
	if c.baseURL == "" {
		return decimal.Zero, errors.New("pricing service is not configured")
	}
	q := url.Values{}
	q.Set("venue_id", venueID)
	q.Set("product_id", productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "build pricing request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "pricing request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return decimal.Zero, errors.Newf("pricing service returned %d: %s", resp.StatusCode, msg)
	}

	var body priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, errors.Wrap(err, "pricing service returned invalid JSON")
	}
	if body.Price == nil {
		return decimal.Zero, errors.New("pricing response has no price")
	}
	return *body.Price, nil
}

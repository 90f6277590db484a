package order

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Forwarder hands a submitted order to the downstream order service.
type Forwarder interface {
	Forward(ctx context.Context, d Details) error
}

type httpForwarder struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPForwarder posts orders as JSON to url.
func NewHTTPForwarder(url, apiKey string) Forwarder {
	return &httpForwarder{url: url, apiKey: apiKey, client: &http.Client{Timeout: 15 * time.Second}}
}

func (f *httpForwarder) Forward(ctx context.Context, d Details) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return errors.Wrap(err, "encode order")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build order request")
	}
	req.Header.Set("Content-Type", "application/json")
	if f.apiKey != "" {
		req.Header.Set("X-API-Key", f.apiKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "forward order")
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Newf("order service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

type logForwarder struct{}

// NewLogForwarder only logs orders. Used when no order service is configured.
func NewLogForwarder() Forwarder { return logForwarder{} }

func (logForwarder) Forward(_ context.Context, d Details) error {
	log.Printf("order %s (not forwarded): customer=%d lines=%d", d.Reference, d.CustomerID, len(d.Lines))
	return nil
}

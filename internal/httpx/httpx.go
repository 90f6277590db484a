// Package httpx holds the JSON request/response helpers shared by the module
// handlers.
package httpx

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
)

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Error writes {error: msg} with the status apperr assigns to err. Server
// errors are logged with the request id and replaced by a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
	}
	Respond(w, status, map[string]string{"error": apperr.Public(err)})
}

// ErrorWithCause is used by admin update/delete endpoints, which append the
// store's error text to the message.
func ErrorWithCause(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
	}
	Respond(w, status, map[string]string{"error": msg + ": " + err.Error()})
}

// Decode reads a JSON body into v, reporting malformed input as a validation error.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}

// IntParam parses a query parameter, clamping it into [min, max].
func IntParam(r *http.Request, key string, def, min, max int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// ID parses a numeric path or query identifier.
func ID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid %s: %q", name, raw)
	}
	return id, nil
}

package middleware

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
	"github.com/georgemunganga/supply-storefront/internal/httpx"
	"github.com/georgemunganga/supply-storefront/internal/session"
)

// SessionCookie is the cookie the login endpoint sets.
const SessionCookie = "session"

// APIKeyHeader carries the static key of the sync endpoints.
const APIKeyHeader = "X-API-Key"

// Authenticate attaches session claims to the request when a valid token is
// presented as a Bearer header or session cookie. It never rejects.
func Authenticate(issuer *session.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if c, err := r.Cookie(SessionCookie); err == nil {
					token = c.Value
				}
			}
			if token != "" {
				if claims, err := issuer.Parse(token); err == nil {
					r = r.WithContext(session.NewContext(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests without session claims.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			httpx.Error(w, r, apperr.Unauthorized("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSuperuser rejects requests whose session lacks the superuser flag.
func RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := session.FromContext(r.Context())
		if !ok {
			httpx.Error(w, r, apperr.Unauthorized("authentication required"))
			return
		}
		if !claims.IsSuperuser {
			httpx.Error(w, r, apperr.Forbidden("superuser access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// APIKey guards POST requests on the given paths with the static sync key,
// compared against its bcrypt hash. Other requests pass through.
func APIKey(hash string, paths ...string) func(http.Handler) http.Handler {
	guarded := make(map[string]bool, len(paths))
	for _, p := range paths {
		guarded[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || !guarded[strings.TrimSuffix(r.URL.Path, "/")] {
				next.ServeHTTP(w, r)
				return
			}
			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				httpx.Error(w, r, apperr.Unauthorized("missing API key"))
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
				httpx.Error(w, r, apperr.Unauthorized("invalid API key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[len("Bearer "):])
}

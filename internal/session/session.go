// Package session signs and parses the storefront session token and carries
// the authenticated claims through a request context.
package session

import (
	"context"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
)

// MainCatalogVenue is the sentinel venue id for items outside any venue.
const MainCatalogVenue = "0"

// Claims is the signed session payload.
type Claims struct {
	CustomerID  int64   `json:"customerId"`
	Email       string  `json:"email"`
	Venues      []int64 `json:"venues"`
	IsSuperuser bool    `json:"isSuperuser"`
	IsSalesTeam bool    `json:"isSalesTeam"`
	SeePrices   bool    `json:"seePrices"`
	jwt.StandardClaims
}

// CanAccessVenue reports whether the session may browse and price venueID.
// Sales team members and superusers may act on behalf of any venue.
func (c *Claims) CanAccessVenue(venueID string) bool {
	if c.IsSuperuser || c.IsSalesTeam {
		return true
	}
	id, err := strconv.ParseInt(venueID, 10, 64)
	if err != nil {
		return false
	}
	for _, v := range c.Venues {
		if v == id {
			return true
		}
	}
	return false
}

// Issuer signs and verifies session tokens with an HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is how long issued tokens stay valid.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs claims, stamping subject, issue time and expiry.
func (i *Issuer) Issue(c Claims) (string, error) {
	now := i.now()
	c.StandardClaims = jwt.StandardClaims{
		Subject:   strconv.FormatInt(c.CustomerID, 10),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(i.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &c)
	return token.SignedString(i.secret)
}

// Parse verifies a token and returns its claims.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Unauthorized("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("invalid session")
	}
	return claims, nil
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying c.
func NewContext(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the claims of the authenticated caller, if any.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok && c != nil
}

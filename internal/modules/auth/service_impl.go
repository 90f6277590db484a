package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
	"github.com/georgemunganga/supply-storefront/internal/modules/customer"
	"github.com/georgemunganga/supply-storefront/internal/notify"
	"github.com/georgemunganga/supply-storefront/internal/session"
)

const (
	maxAttempts   = 5
	requestBurst  = 3
	requestRefill = 30 * time.Second
)

var errInvalidCode = apperr.Unauthorized("invalid or expired code")

// Customers resolves sign-in addresses to accounts.
type Customers interface {
	GetByEmail(ctx context.Context, email string) (*customer.Customer, error)
}

type service struct {
	customers Customers
	codes     CodeRepository
	mailer    notify.Mailer
	issuer    *session.Issuer
	codeTTL   time.Duration
	limiter   *emailLimiter
	now       func() time.Time
	newCode   func() (string, error)
}

// NewService creates a new auth service. Codes stay valid for codeTTL.
func NewService(customers Customers, codes CodeRepository, mailer notify.Mailer, issuer *session.Issuer, codeTTL time.Duration) Service {
	return &service{
		customers: customers,
		codes:     codes,
		mailer:    mailer,
		issuer:    issuer,
		codeTTL:   codeTTL,
		limiter:   newEmailLimiter(requestRefill, requestBurst),
		now:       time.Now,
		newCode:   randomCode,
	}
}

func (s *service) RequestCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperr.Validation("email is required")
	}
	if !s.limiter.allow(email, s.now()) {
		return apperr.RateLimited("too many code requests, try again later")
	}

	c, err := s.customers.GetByEmail(ctx, email)
	if apperr.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	code, err := s.newCode()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.codes.DeleteForCustomer(ctx, c.ID); err != nil {
		return err
	}
	if err := s.codes.Create(ctx, &Code{
		ID:         uuid.New(),
		CustomerID: c.ID,
		CodeHash:   string(hash),
		ExpiresAt:  s.now().Add(s.codeTTL),
	}); err != nil {
		return err
	}

	msg := notify.Message{
		To:      []string{c.Email},
		Subject: "Your sign-in code",
		Text: fmt.Sprintf("Your sign-in code is %s. It expires in %d minutes.\n\nIf you did not ask for this code you can ignore this email.",
			code, int(s.codeTTL.Minutes())),
	}
	// Delivery failures look the same to the caller as an unknown address.
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Printf("auth: sign-in code for customer %d not delivered: %v", c.ID, err)
	}
	return nil
}

func (s *service) VerifyCode(ctx context.Context, email, code string) (*Session, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, apperr.Validation("email and code are required")
	}

	c, err := s.customers.GetByEmail(ctx, email)
	if apperr.IsNotFound(err) {
		return nil, errInvalidCode
	}
	if err != nil {
		return nil, err
	}

	stored, err := s.codes.Latest(ctx, c.ID)
	if apperr.IsNotFound(err) {
		return nil, errInvalidCode
	}
	if err != nil {
		return nil, err
	}
	if !s.now().Before(stored.ExpiresAt) {
		return nil, errInvalidCode
	}
	if stored.Attempts >= maxAttempts {
		return nil, apperr.Unauthorized("too many attempts, request a new code")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.CodeHash), []byte(code)); err != nil {
		if err := s.codes.IncrementAttempts(ctx, stored.ID); err != nil {
			return nil, err
		}
		return nil, errInvalidCode
	}

	if err := s.codes.DeleteForCustomer(ctx, c.ID); err != nil {
		return nil, err
	}

	claims := session.Claims{
		CustomerID:  c.ID,
		Email:       c.Email,
		Venues:      c.VenueIDs,
		IsSuperuser: c.IsSuperuser,
		IsSalesTeam: c.IsSalesTeam,
		SeePrices:   c.SeePrices,
	}
	token, err := s.issuer.Issue(claims)
	if err != nil {
		return nil, err
	}
	parsed, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: time.Unix(parsed.ExpiresAt, 0), Claims: parsed}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// randomCode returns six random decimal digits.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

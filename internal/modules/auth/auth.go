package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/supply-storefront/internal/session"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	// RequestCode emails a one-time sign-in code. Unknown addresses get the
	// same answer as known ones.
	RequestCode(ctx context.Context, email string) error

	// VerifyCode exchanges a valid code for a signed session.
	VerifyCode(ctx context.Context, email, code string) (*Session, error)
}

// Session is the result of a successful sign-in.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Claims    *session.Claims `json:"session"`
}

// Code is a stored one-time code. Only its bcrypt hash is kept.
type Code struct {
	ID         uuid.UUID
	CustomerID int64
	CodeHash   string
	ExpiresAt  time.Time
	Attempts   int
}

// CodeRepository persists one-time codes.
type CodeRepository interface {
	Create(ctx context.Context, c *Code) error
	// Latest returns the most recent code of the customer.
	Latest(ctx context.Context, customerID int64) (*Code, error)
	IncrementAttempts(ctx context.Context, id uuid.UUID) error
	DeleteForCustomer(ctx context.Context, customerID int64) error
}

package auth

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
)

type postgresCodeRepository struct {
	db *sql.DB
}

// NewPostgresCodeRepository creates a new PostgreSQL one-time code repository.
func NewPostgresCodeRepository(db *sql.DB) CodeRepository {
	return &postgresCodeRepository{db: db}
}

func (r *postgresCodeRepository) Create(ctx context.Context, c *Code) error {
	query := `
		INSERT INTO otp_codes (id, customer_id, code_hash, expires_at, attempts)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.CustomerID, c.CodeHash, c.ExpiresAt, c.Attempts)
	return errors.Wrap(err, "insert otp code")
}

func (r *postgresCodeRepository) Latest(ctx context.Context, customerID int64) (*Code, error) {
	c := &Code{}
	query := `
		SELECT id, customer_id, code_hash, expires_at, attempts
		FROM otp_codes
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(
		&c.ID,
		&c.CustomerID,
		&c.CodeHash,
		&c.ExpiresAt,
		&c.Attempts,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("no code issued")
	}
	if err != nil {
		return nil, errors.Wrap(err, "load otp code")
	}
	return c, nil
}

func (r *postgresCodeRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE otp_codes SET attempts = attempts + 1 WHERE id = $1`, id)
	return errors.Wrap(err, "count otp attempt")
}

func (r *postgresCodeRepository) DeleteForCustomer(ctx context.Context, customerID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM otp_codes WHERE customer_id = $1`, customerID)
	return errors.Wrap(err, "delete otp codes")
}

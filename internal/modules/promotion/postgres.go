package promotion

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const columns = `id, kind, title, image_url, target_url, content, is_active, display_order, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Promotion) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO promotions (id, kind, title, image_url, target_url, content, is_active, display_order)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		p.ID, p.Kind, p.Title, p.ImageURL, p.TargetURL, p.Content, p.IsActive, p.DisplayOrder,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return errors.Wrap(err, "insert promotion")
}

func (r *postgresRepo) Update(ctx context.Context, p *Promotion) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE promotions
		SET kind=$1, title=$2, image_url=$3, target_url=$4, content=$5, is_active=$6,
		    display_order=$7, updated_at=NOW()
		WHERE id=$8
		RETURNING created_at, updated_at`,
		p.Kind, p.Title, p.ImageURL, p.TargetURL, p.Content, p.IsActive, p.DisplayOrder, p.ID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("promotion %s not found", p.ID)
	}
	return errors.Wrap(err, "update promotion")
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM promotions WHERE id=$1`, id)
	if err != nil {
		return errors.Wrap(err, "delete promotion")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("promotion %s not found", id)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Promotion, error) {
	p, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM promotions WHERE id=$1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("promotion %s not found", id)
	}
	return p, err
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]*Promotion, error) {
	var clauses []string
	var args []interface{}
	if f.Kind != "" {
		args = append(args, f.Kind)
		clauses = append(clauses, fmt.Sprintf("kind=$%d", len(args)))
	}
	if f.ActiveOnly {
		clauses = append(clauses, "is_active")
	}
	query := `SELECT ` + columns + ` FROM promotions`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY display_order, created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list promotions")
	}
	defer rows.Close()

	out := []*Promotion{}
	for rows.Next() {
		p, err := scan(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scan(fn func(...interface{}) error) (*Promotion, error) {
	p := &Promotion{}
	err := fn(&p.ID, &p.Kind, &p.Title, &p.ImageURL, &p.TargetURL, &p.Content,
		&p.IsActive, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

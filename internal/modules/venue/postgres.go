package venue

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
	"github.com/georgemunganga/supply-storefront/internal/database"
	"github.com/georgemunganga/supply-storefront/internal/modules/catalog"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const venueColumns = `v.id, v.name,
	(SELECT COUNT(*) FROM venue_products vp WHERE vp.venue_id = v.id),
	v.created_at, v.updated_at`

func (r *postgresRepository) Create(ctx context.Context, v *Venue, productIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO venues (id, name) VALUES ($1, $2)
		RETURNING created_at, updated_at`, v.ID, v.Name).Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Conflict("venue %d already exists", v.ID)
		}
		return errors.Wrap(err, "insert venue")
	}
	if err := replaceProducts(ctx, tx, v.ID, productIDs); err != nil {
		return err
	}
	v.ProductCount = len(productIDs)
	return tx.Commit()
}

func (r *postgresRepository) Update(ctx context.Context, v *Venue, productIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		UPDATE venues SET name=$1, updated_at=NOW() WHERE id=$2
		RETURNING updated_at`, v.Name, v.ID).Scan(&v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("venue %d not found", v.ID)
	}
	if err != nil {
		return errors.Wrap(err, "update venue")
	}
	if productIDs != nil {
		if err := replaceProducts(ctx, tx, v.ID, productIDs); err != nil {
			return err
		}
		v.ProductCount = len(productIDs)
	}
	return tx.Commit()
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM venues WHERE id=$1`, id)
	if err != nil {
		return errors.Wrap(err, "delete venue")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("venue %d not found", id)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Venue, error) {
	v := &Venue{}
	err := r.db.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues v WHERE v.id=$1`, id).
		Scan(&v.ID, &v.Name, &v.ProductCount, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("venue %d not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load venue")
	}
	return v, nil
}

func (r *postgresRepository) List(ctx context.Context, ids []int64) ([]*Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues v`
	args := []interface{}{}
	if ids != nil {
		query += ` WHERE v.id = ANY($1)`
		args = append(args, pq.Array(ids))
	}
	query += ` ORDER BY v.name, v.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list venues")
	}
	defer rows.Close()

	venues := []*Venue{}
	for rows.Next() {
		v := &Venue{}
		if err := rows.Scan(&v.ID, &v.Name, &v.ProductCount, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

func (r *postgresRepository) ListProducts(ctx context.Context, venueID int64, limit, offset int) ([]*catalog.Product, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM venue_products WHERE venue_id=$1`, venueID).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count venue products")
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+catalog.ProductColumns()+`
		FROM venue_products vp JOIN products p ON p.id = vp.product_id
		WHERE vp.venue_id=$1
		ORDER BY p.title, p.id
		LIMIT $2 OFFSET $3`, venueID, limit, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list venue products")
	}
	defer rows.Close()

	products := []*catalog.Product{}
	for rows.Next() {
		p, err := catalog.ScanProduct(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func replaceProducts(ctx context.Context, tx *sql.Tx, venueID int64, productIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM venue_products WHERE venue_id=$1`, venueID); err != nil {
		return errors.Wrap(err, "clear venue products")
	}
	for _, id := range productIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO venue_products (venue_id, product_id) VALUES ($1, $2)`, venueID, id)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return apperr.Validation("product %d does not exist", id)
			}
			return errors.Wrap(err, "insert venue product")
		}
	}
	return nil
}

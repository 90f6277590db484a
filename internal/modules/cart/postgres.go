package cart

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
	"github.com/georgemunganga/supply-storefront/internal/database"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Get(ctx context.Context, customerID int64) (*Cart, error) {
	c := &Cart{CustomerID: customerID, Items: []*Item{}}
	var id uuid.UUID
	var updated time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT id, updated_at FROM carts WHERE customer_id=$1`, customerID).Scan(&id, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return c, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	c.ID, c.UpdatedAt = &id, &updated

	rows, err := r.db.QueryContext(ctx, `
		SELECT ci.product_id, ci.quantity, ci.venue_id, COALESCE(v.name, ''),
		       p.sku, p.title, p.unit_of_measure,
		       (SELECT i.url FROM product_images i WHERE i.product_id = p.id ORDER BY i.position LIMIT 1)
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		LEFT JOIN venues v ON v.id::text = ci.venue_id
		WHERE ci.cart_id=$1
		ORDER BY ci.position`, id)
	if err != nil {
		return nil, errors.Wrap(err, "load cart items")
	}
	defer rows.Close()
	for rows.Next() {
		it := &Item{}
		var image sql.NullString
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.VenueID, &it.VenueName,
			&it.SKU, &it.Title, &it.UnitOfMeasure, &image); err != nil {
			return nil, err
		}
		if image.Valid {
			it.Image = &image.String
		}
		c.Items = append(c.Items, it)
	}
	return c, rows.Err()
}

// Save deletes and re-inserts every line in one transaction. Concurrent saves
// for the same customer are not coordinated; the last commit wins.
func (r *postgresRepo) Save(ctx context.Context, customerID int64, items []ItemInput) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var cartID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO carts (id, customer_id) VALUES ($1, $2)
		ON CONFLICT (customer_id) DO UPDATE SET updated_at = NOW()
		RETURNING id`, uuid.New(), customerID).Scan(&cartID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperr.NotFound("customer %d not found", customerID)
		}
		return errors.Wrap(err, "upsert cart")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID); err != nil {
		return errors.Wrap(err, "clear cart items")
	}
	for i, it := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (cart_id, position, product_id, quantity, venue_id)
			VALUES ($1,$2,$3,$4,$5)`, cartID, i, it.ProductID, it.Quantity, it.VenueID)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return apperr.Validation("product %d does not exist", it.ProductID)
			}
			return errors.Wrap(err, "insert cart item")
		}
	}
	return tx.Commit()
}

func (r *postgresRepo) Clear(ctx context.Context, customerID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE customer_id=$1)`, customerID)
	return errors.Wrap(err, "clear cart")
}

func (r *postgresRepo) Describe(ctx context.Context, items []ItemInput) ([]*Item, error) {
	productIDs := make([]int64, 0, len(items))
	venueIDs := make([]string, 0, len(items))
	for _, it := range items {
		productIDs = append(productIDs, it.ProductID)
		venueIDs = append(venueIDs, it.VenueID)
	}

	type productRow struct {
		sku, title, uom string
		image           *string
	}
	products := map[int64]productRow{}
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.sku, p.title, p.unit_of_measure,
		       (SELECT i.url FROM product_images i WHERE i.product_id = p.id ORDER BY i.position LIMIT 1)
		FROM products p WHERE p.id = ANY($1)`, pq.Array(productIDs))
	if err != nil {
		return nil, errors.Wrap(err, "load products")
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var row productRow
		var image sql.NullString
		if err := rows.Scan(&id, &row.sku, &row.title, &row.uom, &image); err != nil {
			return nil, err
		}
		if image.Valid {
			row.image = &image.String
		}
		products[id] = row
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	venues := map[string]string{}
	vrows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM venues WHERE id::text = ANY($1)`, pq.Array(venueIDs))
	if err != nil {
		return nil, errors.Wrap(err, "load venues")
	}
	defer vrows.Close()
	for vrows.Next() {
		var id int64
		var name string
		if err := vrows.Scan(&id, &name); err != nil {
			return nil, err
		}
		venues[strconv.FormatInt(id, 10)] = name
	}
	if err := vrows.Err(); err != nil {
		return nil, err
	}

	out := make([]*Item, 0, len(items))
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, apperr.Validation("product %d does not exist", it.ProductID)
		}
		out = append(out, &Item{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			VenueID:       it.VenueID,
			VenueName:     venues[it.VenueID],
			SKU:           p.sku,
			Title:         p.title,
			UnitOfMeasure: p.uom,
			Image:         p.image,
		})
	}
	return out, nil
}

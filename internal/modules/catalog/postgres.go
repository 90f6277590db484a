package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
	"github.com/georgemunganga/supply-storefront/internal/database"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `p.id, p.sku, p.title, p.description, p.long_description, p.manufacturer,
	p.category, p.unit_of_measure, p.qty_available, p.tags, p.aqcat, p.pattern, p.quick_ship,
	ARRAY(SELECT i.url FROM product_images i WHERE i.product_id = p.id ORDER BY i.position),
	p.created_at, p.updated_at`

// ScanProduct reads the productColumns projection. Exported for the venue
// module, which selects the same columns joined to its own tables.
func ScanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var manufacturer, category, aqcat, pattern sql.NullString
	var qty sql.NullInt64
	var quickShip sql.NullBool
	var tags, images pq.StringArray
	err := scan(&p.ID, &p.SKU, &p.Title, &p.Description, &p.LongDescription, &manufacturer,
		&category, &p.UnitOfMeasure, &qty, &tags, &aqcat, &pattern, &quickShip,
		&images, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Manufacturer = nullString(manufacturer)
	p.Category = nullString(category)
	p.Collection = nullString(aqcat)
	p.Pattern = nullString(pattern)
	if qty.Valid {
		n := int(qty.Int64)
		p.QtyAvailable = &n
	}
	if quickShip.Valid {
		b := quickShip.Bool
		p.QuickShip = &b
	}
	p.Tags = []string(tags)
	p.Images = []string(images)
	return p, nil
}

// ProductColumns is the select list ScanProduct expects, over alias p.
func ProductColumns() string { return productColumns }

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO products
		  (id, sku, title, description, long_description, manufacturer, category,
		   unit_of_measure, qty_available, tags, aqcat, pattern, quick_ship)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at`,
		p.ID, p.SKU, p.Title, p.Description, p.LongDescription, p.Manufacturer, p.Category,
		p.UnitOfMeasure, p.QtyAvailable, pq.StringArray(p.Tags), p.Collection, p.Pattern, p.QuickShip,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Conflict("product %d already exists", p.ID)
		}
		return errors.Wrap(err, "insert product")
	}
	if err := insertImages(ctx, tx, p.ID, p.Images); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id=$1`, id)
	p, err := ScanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product %d not found", id)
	}
	return p, err
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		UPDATE products
		SET sku=$1, title=$2, description=$3, long_description=$4, manufacturer=$5, category=$6,
		    unit_of_measure=$7, qty_available=$8, tags=$9, aqcat=$10, pattern=$11, quick_ship=$12,
		    updated_at=NOW()
		WHERE id=$13
		RETURNING updated_at`,
		p.SKU, p.Title, p.Description, p.LongDescription, p.Manufacturer, p.Category,
		p.UnitOfMeasure, p.QtyAvailable, pq.StringArray(p.Tags), p.Collection, p.Pattern, p.QuickShip,
		p.ID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("product %d not found", p.ID)
	}
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id=$1`, p.ID); err != nil {
		return errors.Wrap(err, "clear product images")
	}
	if err := insertImages(ctx, tx, p.ID, p.Images); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("product %d not found", id)
	}
	return nil
}

func (r *postgresRepo) Search(ctx context.Context, q Query) ([]*Product, int, error) {
	where, args := q.Filter.Where(1)

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	n := len(args) + 1
	query := fmt.Sprintf(`SELECT %s FROM products p WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, where, orderBy(q.Sort), n, n+1)
	args = append(args, q.PageSize, (q.Page-1)*q.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "search products")
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := ScanProduct(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *postgresRepo) FacetRows(ctx context.Context, f Filter) ([]FacetRow, error) {
	where, args := f.Where(1)
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT category, manufacturer, pattern, aqcat, COALESCE(quick_ship, FALSE)
		FROM products WHERE `+where, args...)
	if err != nil {
		return nil, errors.Wrap(err, "load facets")
	}
	defer rows.Close()

	var out []FacetRow
	for rows.Next() {
		var category, manufacturer, pattern, aqcat sql.NullString
		var row FacetRow
		if err := rows.Scan(&category, &manufacturer, &pattern, &aqcat, &row.QuickShip); err != nil {
			return nil, err
		}
		row.Category = nullString(category)
		row.Manufacturer = nullString(manufacturer)
		row.Pattern = nullString(pattern)
		row.Collection = nullString(aqcat)
		out = append(out, row)
	}
	return out, rows.Err()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func insertImages(ctx context.Context, tx *sql.Tx, productID int64, images []string) error {
	for i, url := range images {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_images (product_id, position, url) VALUES ($1,$2,$3)`,
			productID, i, url); err != nil {
			return errors.Wrap(err, "insert product image")
		}
	}
	return nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

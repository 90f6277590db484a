package customer

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
	"github.com/georgemunganga/supply-storefront/internal/database"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL customer repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const customerColumns = `c.id, c.email, c.phone, c.name, c.see_prices, c.is_superuser, c.is_sales_team,
	ARRAY(SELECT cv.venue_id FROM customer_venues cv WHERE cv.customer_id = c.id ORDER BY cv.venue_id),
	c.created_at, c.updated_at`

func (r *postgresRepository) Create(ctx context.Context, c *Customer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO customers (id, email, phone, name, see_prices, is_superuser, is_sales_team)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, query, c.ID, c.Email, c.Phone, c.Name, c.SeePrices,
		c.IsSuperuser, c.IsSalesTeam).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Conflict("customer %d, email or phone already exists", c.ID)
		}
		return errors.Wrap(err, "insert customer")
	}
	if err := replaceVenues(ctx, tx, c.ID, c.VenueIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepository) Update(ctx context.Context, c *Customer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE customers
		SET email=$1, phone=$2, name=$3, see_prices=$4, is_superuser=$5, is_sales_team=$6, updated_at=NOW()
		WHERE id=$7
		RETURNING updated_at
	`
	err = tx.QueryRowContext(ctx, query, c.Email, c.Phone, c.Name, c.SeePrices,
		c.IsSuperuser, c.IsSalesTeam, c.ID).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("customer %d not found", c.ID)
	}
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Conflict("email or phone of customer %d already in use", c.ID)
		}
		return errors.Wrap(err, "update customer")
	}
	if err := replaceVenues(ctx, tx, c.ID, c.VenueIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return errors.Wrap(err, "delete customer")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("customer %d not found", id)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers c WHERE c.id = $1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("customer %d not found", id)
	}
	return c, err
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers c WHERE c.email = $1`, email).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("no customer with email %s", email)
	}
	return c, err
}

func (r *postgresRepository) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers c WHERE c.phone = $1`, phone).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("no customer with phone %s", phone)
	}
	return c, err
}

func (r *postgresRepository) List(ctx context.Context, search string, limit, offset int) ([]*Customer, int, error) {
	where := `TRUE`
	args := []interface{}{}
	if search != "" {
		where = `(c.email ILIKE $1 OR c.name ILIKE $1 OR c.id::text = $2)`
		args = append(args, "%"+search+"%", search)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers c WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count customers")
	}

	args = append(args, limit, offset)
	query := `SELECT ` + customerColumns + ` FROM customers c WHERE ` + where +
		` ORDER BY c.id LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list customers")
	}
	defer rows.Close()

	customers := []*Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanCustomer(scan func(...interface{}) error) (*Customer, error) {
	c := &Customer{}
	var phone sql.NullString
	var venues pq.Int64Array
	err := scan(&c.ID, &c.Email, &phone, &c.Name, &c.SeePrices, &c.IsSuperuser, &c.IsSalesTeam,
		&venues, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	c.VenueIDs = []int64(venues)
	if c.VenueIDs == nil {
		c.VenueIDs = []int64{}
	}
	return c, nil
}

// replaceVenues disconnects every venue of the customer, then connects ids.
func replaceVenues(ctx context.Context, tx *sql.Tx, customerID int64, ids []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM customer_venues WHERE customer_id=$1`, customerID); err != nil {
		return errors.Wrap(err, "clear customer venues")
	}
	for _, id := range ids {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO customer_venues (customer_id, venue_id) VALUES ($1, $2)`, customerID, id)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return apperr.Validation("venue %d does not exist", id)
			}
			return errors.Wrap(err, "insert customer venue")
		}
	}
	return nil
}

package customer

import "time"

// Customer is a storefront account. Its id is assigned by the upstream ERP
// and doubles as the login subject.
type Customer struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone"`
	Name        string    `json:"name"`
	SeePrices   bool      `json:"seePrices"`
	IsSuperuser bool      `json:"isSuperuser"`
	IsSalesTeam bool      `json:"isSalesTeam"`
	VenueIDs    []int64   `json:"venueIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Record is one entry of the customer sync payload.
type Record struct {
	TrxCustomerID int64   `json:"trx_customer_id"`
	Email         string  `json:"email"`
	Phone         *string `json:"phone"`
	Name          string  `json:"name"`
	SeePrices     bool    `json:"see_prices"`
	TrxVenueIDs   []int64 `json:"trx_venue_ids"`
}

// AdminRecord is the admin create/update payload. Unlike the sync it may
// set the role flags.
type AdminRecord struct {
	Record
	IsSuperuser bool `json:"is_superuser"`
	IsSalesTeam bool `json:"is_sales_team"`
}

// Page is one page of the admin customer listing.
type Page struct {
	Customers []*Customer `json:"customers"`
	Total     int         `json:"total"`
	Page      int         `json:"page"`
	PageSize  int         `json:"pageSize"`
}

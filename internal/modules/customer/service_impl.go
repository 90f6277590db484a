package customer

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
	"github.com/georgemunganga/supply-storefront/internal/batch"
	"github.com/georgemunganga/supply-storefront/internal/notify"
)

const welcomeSMS = "Your supply storefront account is ready. Sign in with %s to receive a one-time code."

type service struct {
	repo Repository
	sms  notify.SMSSender
}

// NewService creates a new customer service. New customers with a phone
// number are welcomed through sms.
func NewService(repo Repository, sms notify.SMSSender) Service {
	return &service{repo: repo, sms: sms}
}

func (s *service) UpsertCustomers(ctx context.Context, recs []Record) *batch.Result[*Customer] {
	res := batch.New[*Customer]()
	for _, rec := range recs {
		c, err := s.upsert(ctx, AdminRecord{Record: rec}, false)
		if err != nil {
			res.Fail(strconv.FormatInt(rec.TrxCustomerID, 10), err)
			continue
		}
		res.Ok(c)
	}
	return res
}

func (s *service) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

func (s *service) ListCustomers(ctx context.Context, search string, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	customers, total, err := s.repo.List(ctx, strings.TrimSpace(search), pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &Page{Customers: customers, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *service) CreateCustomer(ctx context.Context, rec AdminRecord) (*Customer, error) {
	if _, err := s.repo.GetByID(ctx, rec.TrxCustomerID); err == nil {
		return nil, apperr.Conflict("customer %d already exists", rec.TrxCustomerID)
	}
	return s.upsert(ctx, rec, true)
}

func (s *service) UpdateCustomer(ctx context.Context, id int64, rec AdminRecord) (*Customer, error) {
	rec.TrxCustomerID = id
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.upsert(ctx, rec, true)
}

func (s *service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// upsert validates rec, enforces email and phone uniqueness against other
// customers, then updates the existing customer or creates a new one. Role
// flags are only written when admin is set.
func (s *service) upsert(ctx context.Context, rec AdminRecord, admin bool) (*Customer, error) {
	email := normalizeEmail(rec.Email)
	phone := normalizePhone(rec.Phone)
	switch {
	case rec.TrxCustomerID <= 0:
		return nil, apperr.Validation("trx_customer_id is required")
	case email == "":
		return nil, apperr.Validation("email is required")
	case !strings.Contains(email, "@"):
		return nil, apperr.Validation("invalid email %q", rec.Email)
	}
	if err := s.checkUnique(ctx, rec.TrxCustomerID, email, phone); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, rec.TrxCustomerID)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	c := existing
	if c == nil {
		c = &Customer{ID: rec.TrxCustomerID}
	}
	c.Email = email
	c.Phone = phone
	c.Name = strings.TrimSpace(rec.Name)
	c.SeePrices = rec.SeePrices
	c.VenueIDs = uniqueIDs(rec.TrxVenueIDs)
	if admin {
		c.IsSuperuser = rec.IsSuperuser
		c.IsSalesTeam = rec.IsSalesTeam
	}

	if existing != nil {
		if err := s.repo.Update(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	if c.Phone != nil {
		if err := s.sms.SendSMS(ctx, *c.Phone, fmt.Sprintf(welcomeSMS, c.Email)); err != nil {
			log.Printf("customer %d: welcome sms: %v", c.ID, err)
		}
	}
	return c, nil
}

func (s *service) checkUnique(ctx context.Context, id int64, email string, phone *string) error {
	other, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil && other.ID != id:
		return apperr.Conflict("email %s already belongs to customer %d", email, other.ID)
	case err != nil && !apperr.IsNotFound(err):
		return err
	}
	if phone == nil {
		return nil
	}
	other, err = s.repo.GetByPhone(ctx, *phone)
	switch {
	case err == nil && other.ID != id:
		return apperr.Conflict("phone %s already belongs to customer %d", *phone, other.ID)
	case err != nil && !apperr.IsNotFound(err):
		return err
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	p := strings.TrimSpace(*phone)
	if p == "" {
		return nil
	}
	return &p
}

func uniqueIDs(ids []int64) []int64 {
	seen := map[int64]bool{}
	out := []int64{}
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

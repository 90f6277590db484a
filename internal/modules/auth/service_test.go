package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/supply-storefront/internal/apperr"
	"github.com/georgemunganga/supply-storefront/internal/modules/customer"
	"github.com/georgemunganga/supply-storefront/internal/notify"
	"github.com/georgemunganga/supply-storefront/internal/session"
)

type memCustomers map[string]*customer.Customer

func (m memCustomers) GetByEmail(_ context.Context, email string) (*customer.Customer, error) {
	if c, ok := m[email]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("no customer with email %s", email)
}

type memCodes struct {
	codes []*Code
}

func (m *memCodes) Create(_ context.Context, c *Code) error {
	cp := *c
	m.codes = append(m.codes, &cp)
	return nil
}

func (m *memCodes) Latest(_ context.Context, customerID int64) (*Code, error) {
	for i := len(m.codes) - 1; i >= 0; i-- {
		if m.codes[i].CustomerID == customerID {
			cp := *m.codes[i]
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("no code issued")
}

func (m *memCodes) IncrementAttempts(_ context.Context, id uuid.UUID) error {
	for _, c := range m.codes {
		if c.ID == id {
			c.Attempts++
		}
	}
	return nil
}

func (m *memCodes) DeleteForCustomer(_ context.Context, customerID int64) error {
	kept := m.codes[:0]
	for _, c := range m.codes {
		if c.CustomerID != customerID {
			kept = append(kept, c)
		}
	}
	m.codes = kept
	return nil
}

type outbox struct {
	err  error
	sent []notify.Message
}

func (o *outbox) Send(_ context.Context, m notify.Message) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, m)
	return nil
}

type harness struct {
	svc   *service
	codes *memCodes
	mail  *outbox
	clock time.Time
}

func newHarness() *harness {
	h := &harness{codes: &memCodes{}, mail: &outbox{}, clock: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	customers := memCustomers{
		"chef@bistro.test": {ID: 9, Email: "chef@bistro.test", SeePrices: true, VenueIDs: []int64{5, 6}},
	}
	issuer := session.NewIssuer("test-secret", 24*time.Hour)
	h.svc = NewService(customers, h.codes, h.mail, issuer, 10*time.Minute).(*service)
	h.svc.now = func() time.Time { return h.clock }
	h.svc.newCode = func() (string, error) { return "123456", nil }
	return h
}

func TestRequestAndVerifyCode(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.svc.RequestCode(context.Background(), " Chef@Bistro.test "))

	require.Len(t, h.mail.sent, 1)
	assert.Equal(t, []string{"chef@bistro.test"}, h.mail.sent[0].To)
	assert.Contains(t, h.mail.sent[0].Text, "123456")
	require.Len(t, h.codes.codes, 1)
	assert.NotEqual(t, "123456", h.codes.codes[0].CodeHash, "only the hash is stored")

	s, err := h.svc.VerifyCode(context.Background(), "chef@bistro.test", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, int64(9), s.Claims.CustomerID)
	assert.Equal(t, []int64{5, 6}, s.Claims.Venues)
	assert.True(t, s.Claims.SeePrices)
	assert.Empty(t, h.codes.codes, "a used code is removed")

	_, err = h.svc.VerifyCode(context.Background(), "chef@bistro.test", "123456")
	assert.Equal(t, http.StatusUnauthorized, apperr.Status(err))
}

func TestRequestCodeForUnknownEmailLooksTheSame(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.svc.RequestCode(context.Background(), "nobody@else.test"))
	assert.Empty(t, h.mail.sent)
	assert.Empty(t, h.codes.codes)
}

func TestRequestCodeIsRateLimitedPerEmail(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	for i := 0; i < requestBurst; i++ {
		require.NoError(t, h.svc.RequestCode(ctx, "chef@bistro.test"))
	}
	err := h.svc.RequestCode(ctx, "chef@bistro.test")
	assert.Equal(t, http.StatusTooManyRequests, apperr.Status(err))

	// Other addresses have their own budget.
	assert.NoError(t, h.svc.RequestCode(ctx, "nobody@else.test"))

	h.clock = h.clock.Add(requestRefill)
	assert.NoError(t, h.svc.RequestCode(ctx, "chef@bistro.test"))
}

func TestVerifyCodeRejectsExpiredCode(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.svc.RequestCode(context.Background(), "chef@bistro.test"))
	h.clock = h.clock.Add(10 * time.Minute)

	_, err := h.svc.VerifyCode(context.Background(), "chef@bistro.test", "123456")
	assert.Equal(t, http.StatusUnauthorized, apperr.Status(err))
}

func TestVerifyCodeLocksAfterMaxAttempts(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	require.NoError(t, h.svc.RequestCode(ctx, "chef@bistro.test"))

	for i := 0; i < maxAttempts; i++ {
		_, err := h.svc.VerifyCode(ctx, "chef@bistro.test", "000000")
		require.Error(t, err)
	}
	_, err := h.svc.VerifyCode(ctx, "chef@bistro.test", "123456")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many attempts")
}

func TestVerifyCodeUnknownEmail(t *testing.T) {
	h := newHarness()
	_, err := h.svc.VerifyCode(context.Background(), "nobody@else.test", "123456")
	assert.Equal(t, http.StatusUnauthorized, apperr.Status(err))

	_, err = h.svc.VerifyCode(context.Background(), "", "")
	assert.Equal(t, http.StatusBadRequest, apperr.Status(err))
}

func TestRequestCodeMailFailureMatchesUnknownEmail(t *testing.T) {
	h := newHarness()
	h.mail.err = errors.New("535 5.7.8 smtp.internal.example auth failed")

	known := h.svc.RequestCode(context.Background(), "chef@bistro.test")
	unknown := h.svc.RequestCode(context.Background(), "nobody@else.test")
	assert.NoError(t, known)
	assert.NoError(t, unknown)
	assert.Equal(t, apperr.Status(known), apperr.Status(unknown))
}

func TestRandomCodeIsSixDigits(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := randomCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9]{6}$`, code)
	}
}

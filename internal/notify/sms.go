package notify

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// SMSSender delivers text messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type twilioSMS struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

// NewTwilioSMS sends through the Twilio Messages REST resource.
func NewTwilioSMS(baseURL, accountSID, authToken, from string) SMSSender {
	return &twilioSMS{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *twilioSMS) SendSMS(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.from)
	form.Set("Body", body)

	endpoint := s.baseURL + "/Accounts/" + url.PathEscape(s.accountSID) + "/Messages.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "build sms request")
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "send sms")
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Newf("sms provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

type logSMS struct{}

// NewLogSMS only logs messages. Used when no SMS account is configured.
func NewLogSMS() SMSSender { return logSMS{} }

func (logSMS) SendSMS(_ context.Context, to, body string) error {
	log.Printf("sms (not sent): to=%s body=%q", to, body)
	return nil
}

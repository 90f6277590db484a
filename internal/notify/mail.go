package notify

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"net/textproto"

	"github.com/cockroachdb/errors"
	"github.com/jordan-wright/email"
)

// Message is a plain-text email.
type Message struct {
	To      []string
	Subject string
	Text    string
}

// Mailer delivers email messages.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type smtpMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer sends through an SMTP relay with PLAIN auth.
func NewSMTPMailer(host string, port int, user, password, from string) Mailer {
	return &smtpMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: smtp.PlainAuth("", user, password, host),
		from: from,
	}
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("email has no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e := &email.Email{
		To:      msg.To,
		From:    m.from,
		Subject: msg.Subject,
		Text:    []byte(msg.Text),
		Headers: textproto.MIMEHeader{},
	}
	if err := e.Send(m.addr, m.auth); err != nil {
		return errors.Wrapf(err, "send email %q", msg.Subject)
	}
	return nil
}

type logMailer struct{}

// NewLogMailer only logs recipients and subjects. Bodies can carry sign-in
// codes and are never written. Used when no SMTP relay is configured.
func NewLogMailer() Mailer { return logMailer{} }

func (logMailer) Send(_ context.Context, m Message) error {
	log.Printf("mail (not sent): to=%v subject=%q body=%d bytes", m.To, m.Subject, len(m.Text))
	return nil
}

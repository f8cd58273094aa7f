package review

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNoRecipient is returned when a review has nowhere to go.
var ErrNoRecipient = errors.New("review has no recipient")

// Mailer delivers a plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends mail through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string

	// send is smtp.SendMail; replaced in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates an SMTPMailer.
func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		send:     smtp.SendMail,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	addr := net.JoinHostPort(m.Host, m.Port)
	if err := m.send(addr, auth, m.From, []string{to}, buildMessage(m.From, to, subject, body)); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	body = strings.ReplaceAll(body, "\n", "\r\n")
	return fmt.Appendf(nil, "From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", from, to, subject, body)
}

// LogMailer writes messages to the log instead of sending them. It is used
// when no SMTP relay is configured.
type LogMailer struct {
	Logger zerolog.Logger
}

func (m LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.Logger.Info().Str("to", to).Str("subject", subject).Int("bytes", len(body)).Msg("review mail (not sent)")
	return nil
}

// Dispatcher delivers review artifacts.
type Dispatcher struct {
	Mailer Mailer
	Logger zerolog.Logger
}

// Dispatch mails a to its recipient.
func (d *Dispatcher) Dispatch(ctx context.Context, a Artifact) error {
	if a.Recipient == "" {
		return ErrNoRecipient
	}
	if err := d.Mailer.Send(ctx, a.Recipient, a.Subject(), a.Body()); err != nil {
		return err
	}
	d.Logger.Info().
		Str("participant", a.ParticipantID).
		Str("session", a.SessionID).
		Str("question", a.Question.ID).
		Msg("review dispatched")
	return nil
}

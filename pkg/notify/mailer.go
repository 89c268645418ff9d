// Package notify delivers outbound email and SMS. Without credentials both senders run in
// dev mode and only log what they would have sent.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ikkim/shopadmin-backend/config"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
)

// Message is a single HTML email.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type smtpMailer struct {
	cfg  config.SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *smtpMailer) devMode() bool {
	return m.cfg.Username == "" || m.cfg.Password == ""
}

func (m *smtpMailer) from() string {
	if m.cfg.From != "" {
		return m.cfg.From
	}
	return m.cfg.Username
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	if m.devMode() {
		logger.Info("[DEV MODE] Email not sent, SMTP credentials missing", map[string]interface{}{
			"to":      msg.To,
			"subject": msg.Subject,
		})
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from())
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTML)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.from(), msg.To, []byte(b.String())); err != nil {
		logger.Error("Failed to send email", err, map[string]interface{}{
			"to":      msg.To,
			"subject": msg.Subject,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("Email sent", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return nil
}

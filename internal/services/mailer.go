package services

import (
	"fmt"

	"github.com/derrickhua/achieve-arcade-sub000/internal/config"
	"github.com/wneessen/go-mail"
)

// Mailer sends transactional email. Implementations are constructed at startup
// and injected; callers treat failures as log-only.
type Mailer interface {
	SendWelcome(to string) error
}

type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (m *SMTPMailer) SendWelcome(to string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject("Welcome to Achieve Arcade")
	msg.SetBodyString(mail.TypeTextPlain,
		"Welcome aboard!\n\nYour arcade is ready: set up your weekly hour targets, add your first habit, and start earning coins.\n")

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	return client.DialAndSend(msg)
}

// NoopMailer is used when SMTP is not configured (and in tests).
type NoopMailer struct{}

func (NoopMailer) SendWelcome(string) error { return nil }

package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scorecraft/scorecraft-api/internal/config"
	"github.com/scorecraft/scorecraft-api/internal/models"
	"github.com/wneessen/go-mail"
)

// SMTPMailer sends HTML mail through an authenticated SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *slog.Logger
}

func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPass,
		from:     cfg.MailFrom,
		logger:   logger,
	}
}

// BuildMessage turns an Email into a MIME message ready for delivery.
func (m *SMTPMailer) BuildMessage(e models.Email) (*mail.Msg, error) {
	if err := models.Validate.Struct(e); err != nil {
		return nil, fmt.Errorf("invalid email: %v", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %v", m.from, err)
	}
	if err := msg.To(e.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %v", e.To, err)
	}
	msg.Subject(e.Subject)
	msg.SetBodyString(mail.TypeTextHTML, e.HTML)
	return msg, nil
}

func (m *SMTPMailer) Send(ctx context.Context, e models.Email) error {
	msg, err := m.BuildMessage(e)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %v", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		m.logger.Warn("email delivery failed", "to", e.To, "subject", e.Subject, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.Info("email sent", "to", e.To, "subject", e.Subject)
	return nil
}

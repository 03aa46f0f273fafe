package distributor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/liftlab/liftwire/pkg/config"
)

// Attachment is a named file carried on an outbound email.
type Attachment struct {
	Filename string
	Data     []byte
}

// EmailMessage is one outbound email.
type EmailMessage struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer sends email. Channels depend on this instead of an SMTP client so
// delivery logic is testable without a mail server.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMTPMailer sends through a real SMTP relay with STARTTLS.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, msg EmailMessage) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}

	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to build smtp client: %w", err)
	}

	message := mail.NewMsg()
	if err := message.From(m.cfg.Sender); err != nil {
		return fmt.Errorf("invalid sender %s: %w", m.cfg.Sender, err)
	}

	if err := message.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient %s: %w", msg.To, err)
	}

	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextPlain, msg.Body)

	for _, attachment := range msg.Attachments {
		if err := message.AttachReader(attachment.Filename, bytes.NewReader(attachment.Data)); err != nil {
			return fmt.Errorf("failed to attach %s: %w", attachment.Filename, err)
		}
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	return nil
}

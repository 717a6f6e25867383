package mailer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/DanielPopoola/notes-checkout/internal/application"
	"github.com/DanielPopoola/notes-checkout/internal/config"
	"github.com/wneessen/go-mail"
)

const (
	confirmationSubject = "Payment Confirmation"
	confirmationBody    = "Your payment with ID: %s has been successfully processed.\nPlease find your zip file"
	implicitTLSPort     = 465
)

var _ application.Notifier = (*Mailer)(nil)

// Sender is the part of *mail.Client the mailer needs.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Mailer struct {
	sender         Sender
	from           string
	attachmentPath string
	timeout        time.Duration
	logger         *slog.Logger
}

// NewSMTPClient builds the relay client: implicit TLS on 465, mandatory STARTTLS otherwise.
func NewSMTPClient(cfg config.MailerConfig) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.Port == implicitTLSPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	return mail.NewClient(cfg.Host, opts...)
}

func NewMailer(sender Sender, cfg config.MailerConfig, logger *slog.Logger) *Mailer {
	return &Mailer{
		sender:         sender,
		from:           cfg.User,
		attachmentPath: cfg.AttachmentPath,
		timeout:        cfg.Timeout,
		logger:         logger,
	}
}

// SendConfirmation mails the payment confirmation with the notes archive attached.
// One connection per call; nothing is queued or retried.
func (m *Mailer) SendConfirmation(ctx context.Context, recipient, paymentID string) error {
	msg, err := m.buildMessage(recipient, paymentID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}

	m.logger.Info("email sent successfully", "payment_id", paymentID)
	return nil
}

func (m *Mailer) buildMessage(recipient, paymentID string) (*mail.Msg, error) {
	attachment, err := os.ReadFile(m.attachmentPath)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(confirmationSubject)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(confirmationBody, paymentID))

	if err := msg.AttachReader(filepath.Base(m.attachmentPath), bytes.NewReader(attachment)); err != nil {
		return nil, fmt.Errorf("attach %s: %w", m.attachmentPath, err)
	}

	return msg, nil
}

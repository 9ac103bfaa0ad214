package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-stock-orders/internal/config"
)

// Sender delivers order notifications. Callers treat failures as
// non-fatal: the order change they describe is already committed.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, d Details) error
	SendOrderCancellation(ctx context.Context, d Details) error
}

type dialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Mailer is the SMTP Sender.
type Mailer struct {
	client    dialer
	fromName  string
	fromEmail string
	log       *zap.Logger
	now       func() time.Time
}

func NewMailer(cfg config.SMTPConfig, log *zap.Logger) (*Mailer, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.EnableTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return newMailer(client, cfg.SenderName, cfg.SenderEmail, log), nil
}

func newMailer(client dialer, fromName, fromEmail string, log *zap.Logger) *Mailer {
	return &Mailer{
		client:    client,
		fromName:  fromName,
		fromEmail: fromEmail,
		log:       log.With(zap.String("component", "mailer")),
		now:       time.Now,
	}
}

type outgoing struct {
	to      string
	subject string
	html    string
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, d Details) error {
	body, err := renderConfirmation(d)
	if err != nil {
		return err
	}
	return m.send(ctx, outgoing{
		to:      d.CustomerEmail,
		subject: confirmationSubject(d.OrderID),
		html:    body,
	})
}

func (m *Mailer) SendOrderCancellation(ctx context.Context, d Details) error {
	body, err := renderCancellation(d, m.now())
	if err != nil {
		return err
	}
	return m.send(ctx, outgoing{
		to:      d.CustomerEmail,
		subject: cancellationSubject(d.OrderID),
		html:    body,
	})
}

func confirmationSubject(orderID int64) string {
	return fmt.Sprintf("✅ Sipariş Onayı - #%d", orderID)
}

func cancellationSubject(orderID int64) string {
	return fmt.Sprintf("❌ Sipariş İptali - #%d", orderID)
}

func (m *Mailer) send(ctx context.Context, o outgoing) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.fromEmail); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(o.to); err != nil {
		return fmt.Errorf("mail to %q: %w", o.to, err)
	}
	msg.Subject(o.subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextHTML, o.html)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		m.log.Error("email delivery failed", zap.String("to", o.to), zap.String("subject", o.subject), zap.Error(err))
		return fmt.Errorf("send mail: %w", err)
	}
	m.log.Info("email sent", zap.String("to", o.to), zap.String("subject", o.subject))
	return nil
}

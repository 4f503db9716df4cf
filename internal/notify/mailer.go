package notify

import (
	"context"
	"time"

	"same-backend/internal/config"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SendTimeout bounds a single SMTP dispatch. A hanging mail provider must
// fail the dispatch, not stall a sweep.
const SendTimeout = 20 * time.Second

// Message is one rendered outbound email.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Mailer abstracts the email transport so tests inject fakes and an
// unconfigured deployment degrades to logging.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends through a process-wide SMTP client, configured once at
// startup.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUsername),
		mail.WithPassword(cfg.SMTPPassword),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(SendTimeout),
	)
	if err != nil {
		return nil, err
	}
	return &SMTPMailer{client: client, from: cfg.EmailFrom}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	mm := mail.NewMsg()
	if err := mm.From(m.from); err != nil {
		return err
	}
	if err := mm.AddToFormat(msg.ToName, msg.To); err != nil {
		return err
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.Text)
	mm.AddAlternativeString(mail.TypeTextHTML, msg.HTML)

	ctx, cancel := context.WithTimeout(ctx, SendTimeout)
	defer cancel()
	return m.client.DialAndSendWithContext(ctx, mm)
}

// LogMailer stands in when SMTP is not configured: every dispatch is
// logged and reported as success so the rest of the pipeline stays
// exercisable in development.
type LogMailer struct {
	Logger *zap.Logger
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.Logger.Info("smtp not configured, alert not sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

package mailer

import (
	"context"
	"sync"

	"github.com/wneessen/go-mail"

	apperrors "github.com/formrelay/formrelay-api/pkg/errors"
	"github.com/formrelay/formrelay-api/pkg/logger"
	"go.uber.org/zap"
)

// Config holds SMTP connection parameters.
type Config struct {
	Host string
	Port int
	User string
	Pass string
}

// MissingFields returns the env-var names of unset required settings.
func (c Config) MissingFields() []string {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "EMAIL_HOST")
	}
	if c.Port == 0 {
		missing = append(missing, "EMAIL_PORT")
	}
	if c.User == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if c.Pass == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	return missing
}

// Provider hands out a process-wide SMTP client. Construction is lazy so a
// request that never sends email does not pay for it, and idempotent so
// every caller shares one client. The go-mail client serializes sends
// internally and dials per send, so sharing is safe across requests.
type Provider struct {
	cfg Config

	mu     sync.Mutex
	client *mail.Client
}

// NewProvider creates a Provider. No connection is made here; the client is
// built on first use so missing configuration surfaces as a per-request
// ConfigurationError rather than a startup crash.
func NewProvider(cfg Config) *Provider {
	return &Provider{cfg: cfg}
}

// Client returns the shared SMTP client, constructing it on first call.
func (p *Provider) Client() (*mail.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	if missing := p.cfg.MissingFields(); len(missing) > 0 {
		return nil, apperrors.ConfigurationError(missing...)
	}

	opts := []mail.Option{
		mail.WithPort(p.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(p.cfg.User),
		mail.WithPassword(p.cfg.Pass),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}

	client, err := mail.NewClient(p.cfg.Host, opts...)
	if err != nil {
		return nil, apperrors.ClassifySMTP(err)
	}

	logger.Info("SMTP client created",
		zap.String("host", p.cfg.Host),
		zap.Int("port", p.cfg.Port),
		zap.String("user", p.cfg.User))

	p.client = client
	return p.client, nil
}

// Send delivers a single message over the shared client. The context bounds
// the dial and the SMTP conversation.
func (p *Provider) Send(ctx context.Context, msg *mail.Msg) error {
	client, err := p.Client()
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return apperrors.ClassifySMTP(err)
	}
	return nil
}

// Sender returns the authenticated account address used as the From header.
func (p *Provider) Sender() string {
	return p.cfg.User
}

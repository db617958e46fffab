package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/riskibarqy/bolao/internal/domain/notification"
	"github.com/riskibarqy/bolao/internal/platform/logging"
	"github.com/riskibarqy/bolao/internal/platform/resilience"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPSender delivers plain-text mail through one SMTP relay. Consecutive relay
// failures open the breaker and later sends fail fast with resilience.ErrCircuitOpen.
type SMTPSender struct {
	cfg     SMTPConfig
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
	dial    func(ctx context.Context, msg *gomail.Msg) error
}

func NewSMTPSender(cfg SMTPConfig, breaker *resilience.CircuitBreaker, logger *logging.Logger) (*SMTPSender, error) {
	if logger == nil {
		logger = logging.Default()
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(cfg.Timeout),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPSender{
		cfg:     cfg,
		breaker: breaker,
		logger:  logger,
		dial: func(ctx context.Context, msg *gomail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
	}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg notification.Message) error {
	m, err := s.buildMessage(msg)
	if err != nil {
		return err
	}

	err = s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.dial(ctx, m)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "smtp send failed",
			"to", msg.To,
			"subject", msg.Subject,
			"circuit_state", s.breaker.State(),
			"error", err,
		)
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}

	s.logger.InfoContext(ctx, "mail sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (s *SMTPSender) buildMessage(msg notification.Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("set mail sender %q: %w", s.cfg.From, err)
	}
	if err := m.To(strings.TrimSpace(msg.To)); err != nil {
		return nil, fmt.Errorf("set mail recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return m, nil
}

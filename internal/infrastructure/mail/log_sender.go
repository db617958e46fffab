package mail

import (
	"context"

	"github.com/riskibarqy/bolao/internal/domain/notification"
	"github.com/riskibarqy/bolao/internal/platform/logging"
)

// LogSender writes messages to the log instead of delivering them. Used in development.
type LogSender struct {
	logger *logging.Logger
}

func NewLogSender(logger *logging.Logger) *LogSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg notification.Message) error {
	s.logger.InfoContext(ctx, "mail not delivered (log driver)",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

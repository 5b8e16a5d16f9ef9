package email

import (
	"context"

	"github.com/dropDatabas3/michelangelo/internal/observability/logger"
)

// LogSender no envía nada: registra el mensaje (dev sin SMTP).
type LogSender struct{}

func (LogSender) Send(ctx context.Context, m Message) error {
	logger.From(ctx).Info("email not sent (no smtp configured)",
		logger.Component("email.log"),
		logger.Email(m.To),
		logger.String("subject", m.Subject),
		logger.String("text", m.Text),
	)
	return nil
}

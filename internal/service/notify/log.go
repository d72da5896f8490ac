package notify

import (
	"context"

	"github.com/nkiryanov/identity/internal/logger"
)

// LogSender does not deliver anything, only writes email to the log
type LogSender struct {
	Logger logger.Logger
}

func (s LogSender) Send(_ context.Context, email Email) error {
	s.Logger.Info("Email sent", "to", email.To, "subject", email.Subject)
	return nil
}

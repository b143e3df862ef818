package notify

import (
	"context"

	"go.uber.org/zap"
)

// NoOpNotifier logs and discards alerts. Used when email delivery is
// disabled in configuration.
type NoOpNotifier struct {
	logger *zap.Logger
}

// NewNoOpNotifier creates a notifier that discards alerts with a log line.
func NewNoOpNotifier(logger *zap.Logger) *NoOpNotifier {
	return &NoOpNotifier{logger: logger}
}

// Notify logs the alert that would have been sent.
func (n *NoOpNotifier) Notify(_ context.Context, subject, body string) error {
	n.logger.Info("email disabled, discarding alert",
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

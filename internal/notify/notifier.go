package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers a notification to the user over some channel.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}

// LogNotifier is the in-app channel: it writes notifications to the log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("notify")}
}

func (n *LogNotifier) Send(_ context.Context, subject, body string) error {
	n.log.Info("notification",
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

package notify

import (
	"context"
	"log/slog"
)

// Notifier is the delivery boundary. The worker decides who is due; how a
// message reaches them (LINE push, email, ...) lives behind this interface,
// including any retry or dedup policy.
type Notifier interface {
	Send(ctx context.Context, recipient, message string) error
}

// LogNotifier writes would-be notifications to the log. Default wiring for
// environments without a messaging integration.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Send(_ context.Context, recipient, message string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification", "recipient", recipient, "message", message)
	return nil
}

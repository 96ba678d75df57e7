package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitechat"
)

// Ensure LoggingNotifier implements sitechat.Notifier.
var _ sitechat.Notifier = (*LoggingNotifier)(nil)

// LoggingNotifier wraps a Notifier with delivery logging.
type LoggingNotifier struct {
	next   sitechat.Notifier
	logger *slog.Logger
}

// NewLoggingNotifier creates a new LoggingNotifier.
func NewLoggingNotifier(next sitechat.Notifier, logger *slog.Logger) *LoggingNotifier {
	return &LoggingNotifier{next: next, logger: logger}
}

// Notify delegates to the wrapped notifier and logs the delivery.
func (n *LoggingNotifier) Notify(ctx context.Context, h *sitechat.Handoff) (err error) {
	defer func(begin time.Time) {
		n.logger.Info("handoff notification",
			"id", h.ID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.Notify(ctx, h)
}

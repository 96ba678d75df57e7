package mock

import (
	"context"

	"github.com/fwojciec/sitechat"
)

var _ sitechat.Notifier = (*Notifier)(nil)

// Notifier is a mock implementation of sitechat.Notifier.
type Notifier struct {
	NotifyFn func(ctx context.Context, h *sitechat.Handoff) error
}

func (n *Notifier) Notify(ctx context.Context, h *sitechat.Handoff) error {
	return n.NotifyFn(ctx, h)
}

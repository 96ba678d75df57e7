package mock

import (
	"context"

	"github.com/fwojciec/sitechat"
)

var _ sitechat.HandoffService = (*HandoffService)(nil)

// HandoffService is a mock implementation of sitechat.HandoffService.
type HandoffService struct {
	CreateHandoffFn func(ctx context.Context, h *sitechat.Handoff) error
	FindHandoffsFn  func(ctx context.Context, filter sitechat.HandoffFilter) ([]*sitechat.Handoff, error)
}

func (s *HandoffService) CreateHandoff(ctx context.Context, h *sitechat.Handoff) error {
	return s.CreateHandoffFn(ctx, h)
}

func (s *HandoffService) FindHandoffs(ctx context.Context, filter sitechat.HandoffFilter) ([]*sitechat.Handoff, error) {
	return s.FindHandoffsFn(ctx, filter)
}

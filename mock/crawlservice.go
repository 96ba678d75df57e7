package mock

import (
	"context"

	"github.com/fwojciec/sitechat"
)

var _ sitechat.CrawlService = (*CrawlService)(nil)

// CrawlService is a mock implementation of sitechat.CrawlService.
type CrawlService struct {
	RefreshFn func(ctx context.Context, rawURL string) (*sitechat.Snapshot, error)
}

func (c *CrawlService) Refresh(ctx context.Context, rawURL string) (*sitechat.Snapshot, error) {
	return c.RefreshFn(ctx, rawURL)
}

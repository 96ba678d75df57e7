package crawl

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fwojciec/sitechat"
)

// Compile-time interface verification.
var _ sitechat.CrawlService = (*Service)(nil)

// Service executes crawls one at a time and installs results in the
// knowledge store. Both the recurring background re-crawl and the
// on-demand trigger go through Refresh, so overlapping crawls are
// rejected rather than racing.
type Service struct {
	Crawler *Crawler
	Store   sitechat.KnowledgeStore
	Logger  *slog.Logger

	mu sync.Mutex
}

// Refresh crawls rawURL and atomically replaces the knowledge store
// contents with the new snapshot. Returns ECONFLICT if a crawl is already
// in progress; the store is left untouched on any error.
func (s *Service) Refresh(ctx context.Context, rawURL string) (*sitechat.Snapshot, error) {
	if !s.mu.TryLock() {
		return nil, sitechat.Errorf(sitechat.ECONFLICT, "a crawl is already in progress")
	}
	defer s.mu.Unlock()

	snap, err := s.Crawler.Crawl(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	s.Store.Replace(snap)
	s.logger().Info("crawl finished",
		"origin", snap.Origin,
		"pages", snap.Pages(),
	)
	return snap, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

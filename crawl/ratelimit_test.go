package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/sitechat"
	"github.com/fwojciec/sitechat/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("implements sitechat.DomainLimiter interface", func(t *testing.T) {
		t.Parallel()
		var _ sitechat.DomainLimiter = crawl.NewDomainLimiter(1)
	})

	t.Run("allows immediate request when under limit", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10) // 10 req/sec

		start := time.Now()
		err := limiter.Wait(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("delays the second request to the same domain", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(20) // 50ms between requests

		require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	})

	t.Run("different domains do not share a limiter", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(2)

		require.NoError(t, limiter.Wait(context.Background(), "a.example.com"))
		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "b.example.com"))

		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("returns an error when the context is canceled", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(0.1) // 10s between requests
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := limiter.Wait(ctx, "example.com")
		assert.Error(t, err)
	})
}

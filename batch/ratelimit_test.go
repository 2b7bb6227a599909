package batch_test

import (
	"context"
	"testing"
	"time"

	"github.com/evtable/evtable/batch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiter(t *testing.T) {
	t.Parallel()

	t.Run("allows immediate call when under limit", func(t *testing.T) {
		t.Parallel()

		limiter := batch.NewHostLimiter(10) // 10 req/sec

		start := time.Now()
		err := limiter.Wait(context.Background(), "https://example.com/event/1")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond, "first call should be immediate")
	})

	t.Run("spaces out calls to the same host", func(t *testing.T) {
		t.Parallel()

		limiter := batch.NewHostLimiter(10) // 10 req/sec = 100ms apart

		err := limiter.Wait(context.Background(), "https://example.com/event/1")
		require.NoError(t, err)

		start := time.Now()
		err = limiter.Wait(context.Background(), "https://example.com/event/2")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond, "should wait for rate limit")
	})

	t.Run("different hosts have independent limits", func(t *testing.T) {
		t.Parallel()

		limiter := batch.NewHostLimiter(10)

		err := limiter.Wait(context.Background(), "https://example.com/event/1")
		require.NoError(t, err)

		start := time.Now()
		err = limiter.Wait(context.Background(), "https://other.com/event/1")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond, "different host should not wait")
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		limiter := batch.NewHostLimiter(1) // 1 req/sec

		err := limiter.Wait(context.Background(), "https://example.com/event/1")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err = limiter.Wait(ctx, "https://example.com/event/2")
		assert.Error(t, err, "should fail when context times out")
	})

	t.Run("unparseable URLs fall back to the raw string as key", func(t *testing.T) {
		t.Parallel()

		limiter := batch.NewHostLimiter(10)
		err := limiter.Wait(context.Background(), "not a url")
		require.NoError(t, err)
	})
}

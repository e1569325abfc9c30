package worker

import (
	"context"
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	t.Run("returns early on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		backoff(ctx, time.Hour)
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("backoff took %v after cancellation, want immediate return", elapsed)
		}
	})

	t.Run("waits the full duration otherwise", func(t *testing.T) {
		start := time.Now()
		backoff(context.Background(), 20*time.Millisecond)
		if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
			t.Errorf("backoff returned after %v, want at least 20ms", elapsed)
		}
	})
}

package schedule_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/schedule"
	"github.com/stretchr/testify/require"
)

func TestRepeat(t *testing.T) {
	t.Parallel()

	t.Run("fires repeatedly until stopped", func(t *testing.T) {
		t.Parallel()

		var count atomic.Int64
		stop := schedule.Repeat(t.Context(), 10*time.Millisecond, func(context.Context) {
			count.Add(1)
		})
		defer stop()

		require.Eventually(t, func() bool {
			return count.Load() >= 3
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("no further fires after stop", func(t *testing.T) {
		t.Parallel()

		var count atomic.Int64
		stop := schedule.Repeat(t.Context(), 10*time.Millisecond, func(context.Context) {
			count.Add(1)
		})

		require.Eventually(t, func() bool {
			return count.Load() >= 1
		}, time.Second, 5*time.Millisecond)

		stop()
		observed := count.Load()

		// Several interval periods, no new fires.
		time.Sleep(50 * time.Millisecond)
		require.LessOrEqual(t, count.Load(), observed+1) // fire may have been in flight during stop
		settled := count.Load()
		time.Sleep(50 * time.Millisecond)
		require.Equal(t, settled, count.Load())
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		t.Parallel()

		stop := schedule.Repeat(t.Context(), time.Minute, func(context.Context) {})
		stop()
		stop()
	})

	t.Run("zero interval starts nothing", func(t *testing.T) {
		t.Parallel()

		var count atomic.Int64
		stop := schedule.Repeat(t.Context(), 0, func(context.Context) {
			count.Add(1)
		})
		defer stop()

		time.Sleep(30 * time.Millisecond)
		require.Zero(t, count.Load())
	})

	t.Run("panicking callback does not kill the loop", func(t *testing.T) {
		t.Parallel()

		var count atomic.Int64
		stop := schedule.Repeat(t.Context(), 10*time.Millisecond, func(context.Context) {
			count.Add(1)
			panic("boom")
		})
		defer stop()

		require.Eventually(t, func() bool {
			return count.Load() >= 2
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("first fire waits one full interval", func(t *testing.T) {
		t.Parallel()

		var count atomic.Int64
		stop := schedule.Repeat(t.Context(), 80*time.Millisecond, func(context.Context) {
			count.Add(1)
		})
		defer stop()

		time.Sleep(20 * time.Millisecond)
		require.Zero(t, count.Load())
	})

	t.Run("context cancellation ends the loop", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())

		var count atomic.Int64
		stop := schedule.Repeat(ctx, 10*time.Millisecond, func(context.Context) {
			count.Add(1)
		})
		defer stop()

		cancel()
		time.Sleep(30 * time.Millisecond)
		settled := count.Load()
		time.Sleep(30 * time.Millisecond)
		require.Equal(t, settled, count.Load())
	})
}

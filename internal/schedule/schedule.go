package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// StopFunc cancels a repeating task. Safe to call more than once, or
// never.
type StopFunc func()

// Repeat runs fn on a background goroutine every interval, first firing
// one full interval after the call. The returned StopFunc ends the loop;
// a fire already in progress runs to completion. A panic inside fn is
// recovered and logged so a bad cycle cannot kill the loop.
//
// A non-positive interval starts nothing and returns a no-op StopFunc.
func Repeat(ctx context.Context, interval time.Duration, fn func(context.Context)) StopFunc {
	if interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				fire(ctx, fn)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
		})
	}
}

func fire(ctx context.Context, fn func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			zerolog.Ctx(ctx).Error().
				Interface("panic", r).
				Msg("recovered panic in repeating task")
		}
	}()

	fn(ctx)
}

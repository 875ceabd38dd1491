package board

import (
	"context"
	"time"
)

// Start begins the poll loop. A loop already running is cancelled first, so
// there is never more than one timer; each start moves the generation
// forward, invalidating any fetch still in flight from before.
func (b *Board) Start(ctx context.Context) {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.gen++
	loopCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	interval := b.interval
	b.mu.Unlock()

	go b.loop(loopCtx, interval)
	b.log.Info().Dur("interval", interval).Msg("poll loop started")
}

// Stop cancels the poll loop and invalidates in-flight fetches. Calling it
// while already stopped is a no-op.
func (b *Board) Stop() {
	b.mu.Lock()
	if b.cancel == nil {
		b.mu.Unlock()
		return
	}
	b.cancel()
	b.cancel = nil
	b.gen++
	b.mu.Unlock()
	b.log.Info().Msg("poll loop stopped")
}

// Running reports whether the poll loop is active.
func (b *Board) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancel != nil
}

// SetVisible maps the consuming surface's visibility signal onto the
// scheduler: hidden stops polling, visible resumes it and refreshes
// immediately instead of waiting out a full interval.
func (b *Board) SetVisible(ctx context.Context, visible bool) {
	if !visible {
		b.Stop()
		return
	}
	b.Start(ctx)
	go func() {
		if err := b.Refresh(ctx); err != nil {
			b.log.Warn().Err(err).Msg("visibility refresh failed")
		}
	}()
}

// loop ticks until its context is cancelled. A failed tick logs and leaves
// the schedule untouched: no backoff, no retry cap.
func (b *Board) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.Refresh(ctx); err != nil {
				b.log.Warn().Err(err).Msg("tick failed, keeping schedule")
			}
		}
	}
}

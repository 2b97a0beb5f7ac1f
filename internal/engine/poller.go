// Package engine - poller.go
// The adaptive polling loop: a two-state cadence machine that ticks fast
// while the user is queued and slow while they browse.
package engine

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Run polls until ctx is cancelled. One timer is live at a time; a
// membership flip reschedules it immediately instead of waiting out the
// old interval.
func (e *Engine) Run(ctx context.Context) {
	// Baseline fetch up front, like the app's load-on-mount.
	_ = e.RefreshStatus(ctx)

	t := e.clock.NewTimer(e.interval())
	defer stopAndDrain(t)

	for {
		select {
		case <-ctx.Done():
			e.Stop()
			return
		case <-e.wake:
			stopAndDrain(t)
			t.Reset(e.interval())
		case <-t.Chan():
			_ = e.RefreshStatus(ctx)
			t.Reset(e.interval())
		}
	}
}

func (e *Engine) interval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur.InQueue {
		return e.active
	}
	return e.idle
}

// nudge asks the loop to re-arm its timer with the current interval.
// Non-blocking: a pending nudge is enough.
func (e *Engine) nudge() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// stopAndDrain stops a timer and drains its channel so a late fire can't
// leak into the next select.
func stopAndDrain(t clockwork.Timer) {
	if !t.Stop() {
		select {
		case <-t.Chan():
		default:
		}
	}
}

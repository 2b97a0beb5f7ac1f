// internal/app/subscribers.go
package app

import (
	"context"

	"github.com/sanskarkalal/nextcut-client/internal/discovery"
	"github.com/sanskarkalal/nextcut-client/internal/domain/events"
	"github.com/sanskarkalal/nextcut-client/internal/ui"
)

// startSubscribers registers the cross-package reactions on the bus and
// returns a single cancel for all of them.
func (a *App) startSubscribers(find *discovery.Engine, toast *ui.TermToaster, shutdown context.CancelFunc) func() {
	var cancels []func()

	// While queued there is no reason to shop around; the moment the
	// user is out, queue lengths nearby likely changed.
	cancels = append(cancels, events.Subscribe(a.Bus, func(ev events.MembershipChanged) {
		if ev.InQueue {
			find.Pause()
		} else {
			find.Resume()
		}
	}))

	cancels = append(cancels, events.Subscribe(a.Bus, func(events.QueueExited) {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.RequestTimeout)
		defer cancel()
		find.ForceRefresh(ctx)
	}))

	cancels = append(cancels, events.Subscribe(a.Bus, func(events.SessionExpired) {
		toast.Error("Session expired. Please sign in again.")
		shutdown()
	}))

	a.Log.Debug().
		Int("membership", events.Count[events.MembershipChanged](a.Bus)).
		Int("exited", events.Count[events.QueueExited](a.Bus)).
		Msg("bus subscribers registered")

	return func() {
		for _, c := range cancels {
			c()
		}
	}
}

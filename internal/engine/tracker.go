// Package engine - tracker.go
// Snapshot reconciliation: the comparison step that turns successive
// polled positions into at most one notification event.
package engine

import (
	"github.com/sanskarkalal/nextcut-client/internal/domain/events"
	"github.com/sanskarkalal/nextcut-client/internal/domain/queue"
)

// outcome is what one reconciliation wants published once the engine
// mutex is released.
type outcome struct {
	update  *events.QueueUpdate
	exited  *events.QueueExited
	flipped *events.MembershipChanged
}

// reconcileLocked applies a fresh snapshot against the retained
// comparison state. Caller holds e.mu.
//
// Rules, in order:
//   - first observation of an episode records the baseline and stays
//     silent (the join path announces with the authoritative position);
//   - moving up to 1 is the high-salience "next" event, any other move
//     up is "improved" with the distance moved;
//   - moving down is "worsened" — a server-side reorder, reported as a
//     warning and never an error;
//   - equal position is silence;
//   - inQueue flipping to false after the user was in emits "left" with
//     the retained barber name (covers leave and being served alike),
//     then clears the tracking state.
func (e *Engine) reconcileLocked(st queue.Membership) outcome {
	var out outcome
	if st.InQueue != e.cur.InQueue {
		out.flipped = &events.MembershipChanged{InQueue: st.InQueue}
	}

	switch {
	case st.InQueue && st.Position >= 1:
		name := st.BarberName()
		if e.prevPos != 0 && st.Position != e.prevPos {
			switch {
			case st.Position == 1:
				out.update = &events.QueueUpdate{
					Kind:       events.KindNext,
					Position:   1,
					BarberName: name,
					Magnitude:  e.prevPos - 1,
				}
			case st.Position < e.prevPos:
				out.update = &events.QueueUpdate{
					Kind:       events.KindImproved,
					Position:   st.Position,
					BarberName: name,
					Magnitude:  e.prevPos - st.Position,
				}
			default:
				out.update = &events.QueueUpdate{
					Kind:       events.KindWorsened,
					Position:   st.Position,
					BarberName: name,
					Magnitude:  st.Position - e.prevPos,
				}
			}
		}
		e.prevPos = st.Position
		e.prevBarber = name
		e.wasInQueue = true

	case !st.InQueue:
		if e.wasInQueue {
			out.update = &events.QueueUpdate{Kind: events.KindLeft, BarberName: e.prevBarber}
			out.exited = &events.QueueExited{BarberName: e.prevBarber}
			e.resetTrackingLocked()
		}
	}

	e.cur = st
	return out
}

func (e *Engine) resetTrackingLocked() {
	e.prevPos = 0
	e.prevBarber = ""
	e.wasInQueue = false
}

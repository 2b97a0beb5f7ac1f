// Package notify - tones.go
// Tones are synthesized, not played from assets: short chirps whose
// shape tells the event kind apart without looking at the screen.
package notify

import "github.com/sanskarkalal/nextcut-client/internal/domain/events"

type tone struct {
	freq float64 // Hz
	ms   int
}

var tonePatterns = map[events.Kind][]tone{
	// routine update: the classic high-low chirp
	events.KindJoined:   {{800, 150}, {400, 150}},
	events.KindImproved: {{800, 150}, {400, 150}},
	events.KindWorsened: {{400, 250}},
	// you're next: ascending triple (C5 E5 G5)
	events.KindNext: {{523, 120}, {659, 120}, {784, 200}},
	events.KindLeft: {{660, 200}},
}

// deliverTone plays the pattern for kind off the caller's goroutine.
// Audio failures are logged at debug and otherwise ignored.
func (e *Emitter) deliverTone(kind events.Kind) {
	if !e.sound {
		return
	}
	pattern, ok := tonePatterns[kind]
	if !ok {
		return
	}
	go func() {
		for _, t := range pattern {
			if err := e.beepFn(t.freq, t.ms); err != nil {
				e.log.Debug().Err(err).Str("kind", string(kind)).Msg("tone playback failed")
				return
			}
		}
	}()
}

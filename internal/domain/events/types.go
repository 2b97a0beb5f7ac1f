// Package events - types.go
package events

// Kind classifies a queue transition for notification purposes.
type Kind string

const (
	KindJoined   Kind = "joined"   // membership just began
	KindImproved Kind = "improved" // moved up, not yet next
	KindNext     Kind = "next"     // position 1, high salience
	KindWorsened Kind = "worsened" // moved down; warning, not an error
	KindLeft     Kind = "left"     // served or left the queue
)

// QueueUpdate is emitted by the sync engine when the user's position
// changes in a way worth telling them about. Consumed immediately by
// the notification emitter, never persisted.
type QueueUpdate struct {
	Kind       Kind
	Position   int
	BarberName string
	Magnitude  int // positions moved, for improved/worsened
}

// QueueExited is emitted when a membership episode ends for any reason
// (leave call, served, server-side removal). Discovery force-refreshes
// on it: queue lengths elsewhere have likely shifted.
type QueueExited struct {
	BarberName string
}

// MembershipChanged fires on every inQueue flip and gates the discovery
// auto-refresh (paused while queued).
type MembershipChanged struct {
	InQueue bool
}

// SessionExpired is published when any request comes back 401. The
// credential store has already been cleared by then.
type SessionExpired struct{}

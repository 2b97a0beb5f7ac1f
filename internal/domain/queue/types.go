package queue

import "time"

// BarberRef identifies the barber whose queue the user occupies.
type BarberRef struct {
	ID   int64
	Name string
	Lat  *float64 // optional, for directions
	Long *float64
}

// Membership is the user's relationship to at most one barber's queue.
// The zero value means "not in any queue". Position is 1-based (1 = next)
// and is 0 exactly when InQueue is false.
type Membership struct {
	InQueue   bool
	Position  int
	Barber    *BarberRef
	EnteredAt *time.Time
	Service   Service
	// EstimatedWaitMin is the server-side estimate as reported; the
	// engine derives its own from Position (see EstimatedWait).
	EstimatedWaitMin int
}

// EstimatedWait returns the minutes until the user's turn, assuming
// unitMin minutes per person ahead. 0 when not in queue or already next.
func (m Membership) EstimatedWait(unitMin int) int {
	if !m.InQueue || m.Position < 1 {
		return 0
	}
	w := (m.Position - 1) * unitMin
	if w < 0 {
		return 0
	}
	return w
}

// BarberName returns the owning barber's display name, with a fallback
// so notification text never renders empty.
func (m Membership) BarberName() string {
	if m.Barber == nil || m.Barber.Name == "" {
		return "your barber"
	}
	return m.Barber.Name
}

// Barber is the discovery projection of a shop: coordinates plus current
// queue load. DistanceKm is always computed client-side from the user's
// own fix, never trusted from a server cache.
type Barber struct {
	ID               int64
	Name             string
	Username         string
	Lat              float64
	Long             float64
	QueueLength      int
	EstimatedWaitMin int
	DistanceKm       float64
}

// DashboardEntry is one customer in the barber's own queue view.
type DashboardEntry struct {
	Position  int
	QueueID   int64
	UserID    int64
	UserName  string
	EnteredAt time.Time
}

// Dashboard is the barber-facing snapshot of their whole queue.
type Dashboard struct {
	BarberID int64
	Length   int
	Entries  []DashboardEntry
}

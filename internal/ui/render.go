package ui

import (
	"fmt"
	"strings"

	"github.com/sanskarkalal/nextcut-client/internal/discovery"
	"github.com/sanskarkalal/nextcut-client/internal/domain/queue"
)

// RenderMembership draws the user's queue card.
func RenderMembership(m queue.Membership, unitMin int) string {
	if !m.InQueue {
		return "You're not in a queue. Use `barbers` to find one nearby."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "In queue at %s, position #%d", m.BarberName(), m.Position)
	if m.Position == 1 {
		b.WriteString(" (you're next!)")
	}
	b.WriteString("\n")
	if m.Service != "" {
		fmt.Fprintf(&b, "  service: %s (~%d min)\n", m.Service.Label(), m.Service.Minutes())
	}
	fmt.Fprintf(&b, "  estimated wait: %d min\n", m.EstimatedWait(unitMin))
	if m.EnteredAt != nil {
		fmt.Fprintf(&b, "  joined at: %s\n", m.EnteredAt.Format("15:04"))
	}
	return b.String()
}

// RenderBarbers draws the ranked discovery list.
func RenderBarbers(bs []queue.Barber) string {
	if len(bs) == 0 {
		return "No barbers found nearby yet."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-3s %-20s %-14s %-8s %s\n", "#", "BARBER", "DISTANCE", "QUEUE", "WAIT")
	for i, shop := range bs {
		fmt.Fprintf(&b, "%-3d %-20s %-14s %-8d ~%d min\n",
			i+1, shop.Name, discovery.FormatDistance(shop.DistanceKm), shop.QueueLength, shop.EstimatedWaitMin)
	}
	return b.String()
}

// RenderDashboard draws the barber's own queue.
func RenderDashboard(d queue.Dashboard, clearMin int) string {
	if len(d.Entries) == 0 {
		return "Your queue is empty."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d in queue, ~%d min to clear\n", d.Length, clearMin)
	for _, e := range d.Entries {
		entered := ""
		if !e.EnteredAt.IsZero() {
			entered = e.EnteredAt.Format("15:04")
		}
		fmt.Fprintf(&b, "  #%-3d %-20s since %s\n", e.Position, e.UserName, entered)
	}
	return b.String()
}

// RenderServices draws the service menu for the join prompt.
func RenderServices() string {
	var b strings.Builder
	b.WriteString("Services: ")
	for i, s := range queue.Services() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s (~%d min)", s, s.Minutes())
	}
	return b.String()
}

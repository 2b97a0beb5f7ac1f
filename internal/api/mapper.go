package api

import (
	"time"

	"github.com/sanskarkalal/nextcut-client/internal/domain/queue"
)

// Converts wire DTOs into the domain types the engines consume.

func toMembership(s apiQueueStatus) queue.Membership {
	m := queue.Membership{InQueue: s.InQueue}
	if !s.InQueue {
		return m
	}
	if s.QueuePosition != nil {
		m.Position = *s.QueuePosition
	}
	if s.Barber != nil {
		m.Barber = &queue.BarberRef{
			ID:   s.Barber.ID,
			Name: s.Barber.Name,
			Lat:  s.Barber.Lat,
			Long: s.Barber.Long,
		}
	}
	if t := parseTime(s.EnteredAt); !t.IsZero() {
		m.EnteredAt = &t
	}
	if s.Service != nil {
		if svc, ok := queue.ParseService(*s.Service); ok {
			m.Service = svc
		}
	}
	if s.EstimatedWaitTime != nil {
		m.EstimatedWaitMin = *s.EstimatedWaitTime
	}
	return m
}

func toBarber(b apiBarber) queue.Barber {
	out := queue.Barber{
		ID:       b.ID,
		Name:     b.Name,
		Username: b.Username,
	}
	if b.Lat != nil {
		out.Lat = *b.Lat
	}
	if b.Long != nil {
		out.Long = *b.Long
	}
	if b.QueueLength != nil {
		out.QueueLength = *b.QueueLength
	}
	if b.EstimatedWaitTime != nil {
		out.EstimatedWaitMin = *b.EstimatedWaitTime
	}
	return out
}

func toDashboard(r barberQueueResp) queue.Dashboard {
	d := queue.Dashboard{
		BarberID: r.BarberID,
		Length:   r.QueueLength,
		Entries:  make([]queue.DashboardEntry, 0, len(r.Queue)),
	}
	for _, e := range r.Queue {
		d.Entries = append(d.Entries, queue.DashboardEntry{
			Position:  e.Position,
			QueueID:   e.QueueID,
			UserID:    e.User.ID,
			UserName:  e.User.Name,
			EnteredAt: parseTime(e.EnteredAt),
		})
	}
	return d
}

// parseTime is tolerant: the backend has emitted a few timestamp shapes
// over time.
func parseTime(ts *string) time.Time {
	if ts == nil || *ts == "" {
		return time.Time{}
	}
	s := *ts
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

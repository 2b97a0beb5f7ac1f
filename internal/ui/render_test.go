package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sanskarkalal/nextcut-client/internal/domain/queue"
)

func TestRenderMembership(t *testing.T) {
	out := RenderMembership(queue.Membership{}, 15)
	if !strings.Contains(out, "not in a queue") {
		t.Fatalf("unexpected empty render: %q", out)
	}

	m := queue.Membership{
		InQueue:  true,
		Position: 1,
		Barber:   &queue.BarberRef{ID: 7, Name: "Tony"},
		Service:  queue.ServiceCombo,
	}
	out = RenderMembership(m, 15)
	for _, want := range []string{"Tony", "#1", "you're next", "Haircut + Beard"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBarbers(t *testing.T) {
	out := RenderBarbers([]queue.Barber{
		{ID: 1, Name: "Tony", DistanceKm: 0.85, QueueLength: 2, EstimatedWaitMin: 30},
	})
	if !strings.Contains(out, "850m away") || !strings.Contains(out, "~30 min") {
		t.Fatalf("unexpected render:\n%s", out)
	}
}

func TestTermToaster(t *testing.T) {
	var buf bytes.Buffer
	toast := NewTermToaster(&buf)
	toast.Success("joined")
	toast.Warn("moved down")
	got := buf.String()
	if !strings.Contains(got, "✔ joined") || !strings.Contains(got, "! moved down") {
		t.Fatalf("unexpected output: %q", got)
	}
}

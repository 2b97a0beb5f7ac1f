package ui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sanskarkalal/nextcut-client/internal/domain/queue"
)

type stubQueue struct {
	m          queue.Membership
	joinedID   int64
	joinedName string
	joinedSvc  queue.Service
	left       bool
}

func (s *stubQueue) Membership() queue.Membership { return s.m }
func (s *stubQueue) EstimatedWait() int           { return 0 }
func (s *stubQueue) JoinQueue(_ context.Context, id int64, name string, svc queue.Service) error {
	s.joinedID, s.joinedName, s.joinedSvc = id, name, svc
	s.m = queue.Membership{InQueue: true, Position: 3, Barber: &queue.BarberRef{ID: id, Name: name}, Service: svc}
	return nil
}
func (s *stubQueue) LeaveQueue(context.Context) error    { s.left = true; return nil }
func (s *stubQueue) RefreshStatus(context.Context) error { return nil }

type stubFinder struct {
	list      []queue.Barber
	refreshed bool
}

func (s *stubFinder) Barbers() []queue.Barber      { return s.list }
func (s *stubFinder) ForceRefresh(context.Context) { s.refreshed = true }
func (s *stubFinder) HasLocation() bool            { return true }

func newTestRepl(t *testing.T) (*Repl, *stubQueue, *stubFinder, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	qc := &stubQueue{}
	find := &stubFinder{list: []queue.Barber{
		{ID: 10, Name: "Tony", DistanceKm: 0.8},
		{ID: 11, Name: "Fades Inc", DistanceKm: 2.1},
	}}
	return NewUserRepl(&buf, qc, find, 15, zerolog.Nop()), qc, find, &buf
}

func TestDispatchJoinByListIndex(t *testing.T) {
	r, qc, _, _ := newTestRepl(t)

	if !r.Dispatch(context.Background(), "join 2 beard") {
		t.Fatal("join should not quit the loop")
	}
	if qc.joinedID != 11 || qc.joinedSvc != queue.ServiceBeard {
		t.Fatalf("joined %d/%s, want 11/beard", qc.joinedID, qc.joinedSvc)
	}
	if qc.joinedName != "Fades Inc" {
		t.Fatalf("joined name %q, want the listed display name", qc.joinedName)
	}
}

func TestDispatchJoinDefaultsToHaircut(t *testing.T) {
	r, qc, _, _ := newTestRepl(t)
	r.Dispatch(context.Background(), "join 1")
	if qc.joinedSvc != queue.ServiceHaircut {
		t.Fatalf("default service = %s, want haircut", qc.joinedSvc)
	}
}

func TestDispatchJoinOutOfRange(t *testing.T) {
	r, qc, _, buf := newTestRepl(t)
	r.Dispatch(context.Background(), "join 9")
	if qc.joinedID != 0 {
		t.Fatal("out-of-range join must not reach the engine")
	}
	if !strings.Contains(buf.String(), "between 1 and 2") {
		t.Fatalf("missing range hint: %q", buf.String())
	}
}

func TestDispatchUnknownAndQuit(t *testing.T) {
	r, _, _, buf := newTestRepl(t)
	if !r.Dispatch(context.Background(), "dance") {
		t.Fatal("unknown command should not quit")
	}
	if !strings.Contains(buf.String(), "unknown command") {
		t.Fatalf("no hint printed: %q", buf.String())
	}
	if r.Dispatch(context.Background(), "quit") {
		t.Fatal("quit should end the loop")
	}
}

func TestDispatchLeaveAndRefresh(t *testing.T) {
	r, qc, find, _ := newTestRepl(t)
	r.Dispatch(context.Background(), "leave")
	r.Dispatch(context.Background(), "refresh")
	if !qc.left || !find.refreshed {
		t.Fatalf("left=%v refreshed=%v, want both true", qc.left, find.refreshed)
	}
}

func TestRunUnblocksOnCancel(t *testing.T) {
	r, _, _, _ := newTestRepl(t)
	ctx, cancel := context.WithCancel(context.Background())
	pr, _ := io.Pipe() // never written: the prompt sits waiting for input

	done := make(chan struct{})
	go func() {
		r.Run(ctx, pr)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRunExitsOnQuit(t *testing.T) {
	r, qc, _, _ := newTestRepl(t)
	r.Run(context.Background(), strings.NewReader("leave\nquit\nstatus\n"))
	if !qc.left {
		t.Fatal("commands before quit must still dispatch")
	}
}

type stubBoard struct {
	snap    queue.Dashboard
	removed int64
	walkin  string
}

func (s *stubBoard) Snapshot() queue.Dashboard     { return s.snap }
func (s *stubBoard) EstimatedClear() int           { return len(s.snap.Entries) * 20 }
func (s *stubBoard) Refresh(context.Context) error { return nil }
func (s *stubBoard) RemoveUser(_ context.Context, id int64, _ string) error {
	s.removed = id
	return nil
}
func (s *stubBoard) AddWalkIn(_ context.Context, name, _ string, _ queue.Service) error {
	s.walkin = name
	return nil
}

func TestBarberRemoveByPosition(t *testing.T) {
	var buf bytes.Buffer
	board := &stubBoard{snap: queue.Dashboard{Length: 2, Entries: []queue.DashboardEntry{
		{Position: 1, UserID: 100, UserName: "Ana"},
		{Position: 2, UserID: 101, UserName: "Ben"},
	}}}
	r := NewBarberRepl(&buf, board, zerolog.Nop())

	r.Dispatch(context.Background(), "remove 2")
	if board.removed != 101 {
		t.Fatalf("removed user %d, want 101", board.removed)
	}

	r.Dispatch(context.Background(), "walkin Carla 555-0101 beard")
	if board.walkin != "Carla" {
		t.Fatalf("walkin = %q, want Carla", board.walkin)
	}
}

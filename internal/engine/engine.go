// Package engine owns the client-side view of queue membership: it polls
// the backend, reconciles each snapshot against what it saw last, and
// publishes notification events for the transitions worth announcing.
// Nothing else in the process may mutate the membership state.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/sanskarkalal/nextcut-client/internal/domain/events"
	"github.com/sanskarkalal/nextcut-client/internal/domain/queue"
)

// StatusClient is the slice of the REST client the engine needs.
type StatusClient interface {
	QueueStatus(ctx context.Context) (queue.Membership, error)
	JoinQueue(ctx context.Context, barberID int64, svc queue.Service) error
	LeaveQueue(ctx context.Context) (string, error)
}

type Options struct {
	ActiveInterval time.Duration // poll cadence while in a queue
	IdleInterval   time.Duration // poll cadence while browsing
	RequestTimeout time.Duration
	UnitMinutes    int // minutes per person ahead, for wait estimates
	Clock          clockwork.Clock
	Logger         zerolog.Logger
}

type Engine struct {
	client  StatusClient
	bus     *events.Bus
	clock   clockwork.Clock
	log     zerolog.Logger
	active  time.Duration
	idle    time.Duration
	timeout time.Duration
	unitMin int

	wake chan struct{} // nudges the poll loop to reschedule now

	mu         sync.Mutex
	cur        queue.Membership
	lastErr    error
	prevPos    int // 0 = no prior observation this episode
	prevBarber string
	wasInQueue bool
	joining    map[int64]bool
	leaving    bool
	gen        uint64 // bumped on leave/stop; stale responses are dropped
	stopped    bool
}

func New(client StatusClient, bus *events.Bus, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.ActiveInterval <= 0 {
		opts.ActiveInterval = 5 * time.Second
	}
	if opts.IdleInterval <= 0 {
		opts.IdleInterval = 30 * time.Second
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.UnitMinutes <= 0 {
		opts.UnitMinutes = 15
	}
	return &Engine{
		client:  client,
		bus:     bus,
		clock:   opts.Clock,
		log:     opts.Logger.With().Str("component", "engine").Logger(),
		active:  opts.ActiveInterval,
		idle:    opts.IdleInterval,
		timeout: opts.RequestTimeout,
		unitMin: opts.UnitMinutes,
		wake:    make(chan struct{}, 1),
		joining: make(map[int64]bool),
	}
}

// Membership returns a copy of the current state.
func (e *Engine) Membership() queue.Membership {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cur
}

// LastError is the most recent non-fatal poll failure, nil after any
// successful poll. A set error never implies membership was cleared.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// EstimatedWait derives the minutes until the user's turn from the
// current position. 0 when not in queue.
func (e *Engine) EstimatedWait() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cur.EstimatedWait(e.unitMin)
}

// RefreshStatus polls once and applies the snapshot. Fetch failures are
// recorded and returned but never clear existing membership: stale but
// displayed beats blanked.
func (e *Engine) RefreshStatus(ctx context.Context) error {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return nil
	}
	gen := e.gen
	e.mu.Unlock()

	rctx, cancel := context.WithTimeout(ctx, e.timeout)
	st, err := e.client.QueueStatus(rctx)
	cancel()

	e.mu.Lock()
	if e.stopped || gen != e.gen {
		// The world moved on while this request was in flight.
		e.mu.Unlock()
		return nil
	}
	if err != nil {
		e.lastErr = err
		e.mu.Unlock()
		e.log.Warn().Err(err).Msg("status poll failed, keeping last known state")
		return err
	}
	e.lastErr = nil
	out := e.reconcileLocked(st)
	e.mu.Unlock()

	e.publish(out)
	return nil
}

// JoinQueue enters barberID's queue for svc. A second join for the same
// barber while one is outstanding is rejected, which is what stops a
// double-click from queueing twice. On success the engine re-polls
// immediately so the joined notification carries the true position;
// barberName is the display name the caller already knows, used when
// that refresh fails and the poll hasn't supplied one yet.
func (e *Engine) JoinQueue(ctx context.Context, barberID int64, barberName string, svc queue.Service) error {
	e.mu.Lock()
	if e.joining[barberID] {
		e.mu.Unlock()
		return ErrJoinInFlight
	}
	e.joining[barberID] = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.joining, barberID)
		e.mu.Unlock()
	}()

	if err := e.client.JoinQueue(ctx, barberID, svc); err != nil {
		e.log.Warn().Err(err).Int64("barber_id", barberID).Msg("join failed")
		return err
	}

	if err := e.RefreshStatus(ctx); err != nil {
		e.log.Warn().Err(err).Msg("post-join refresh failed, position unknown until next poll")
	}

	e.mu.Lock()
	pos := e.cur.Position
	name := e.cur.BarberName()
	if e.cur.Barber == nil && barberName != "" {
		name = barberName
		if e.prevBarber == "" {
			e.prevBarber = barberName
		}
	}
	e.mu.Unlock()

	events.Publish(e.bus, events.QueueUpdate{Kind: events.KindJoined, Position: pos, BarberName: name})
	e.log.Info().Int64("barber_id", barberID).Int("position", pos).Str("service", string(svc)).Msg("joined queue")
	return nil
}

// LeaveQueue exits the current queue. On success the membership resets
// immediately rather than waiting for the next poll, comparison state is
// cleared, and a QueueExited signal goes out so discovery can refresh.
// Calling it again while already out is a no-op on local state.
func (e *Engine) LeaveQueue(ctx context.Context) error {
	e.mu.Lock()
	if e.leaving {
		e.mu.Unlock()
		return ErrLeaveInFlight
	}
	e.leaving = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.leaving = false
		e.mu.Unlock()
	}()

	removedFrom, err := e.client.LeaveQueue(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("leave failed, state unchanged")
		return err
	}

	e.mu.Lock()
	e.gen++ // any in-flight poll must not resurrect the old membership
	flipped := e.cur.InQueue
	name := e.prevBarber
	if removedFrom != "" {
		name = removedFrom
	}
	e.cur = queue.Membership{}
	e.resetTrackingLocked()
	e.mu.Unlock()

	if flipped {
		events.Publish(e.bus, events.MembershipChanged{InQueue: false})
		e.nudge()
	}
	events.Publish(e.bus, events.QueueExited{BarberName: name})
	e.log.Info().Str("barber", name).Msg("left queue")
	return nil
}

// Stop invalidates in-flight requests and halts future applies. The Run
// loop exits via its context; Stop makes teardown safe regardless of
// response timing.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.stopped = true
	e.gen++
	e.mu.Unlock()
}

func (e *Engine) publish(out outcome) {
	if out.flipped != nil {
		events.Publish(e.bus, *out.flipped)
		e.nudge()
	}
	if out.update != nil {
		events.Publish(e.bus, *out.update)
	}
	if out.exited != nil {
		events.Publish(e.bus, *out.exited)
	}
}

// Package barberboard is the shop-side controller: it mirrors the
// barber's own queue from the server, marks customers served, and seats
// walk-ins who never touched the app. The server owns the queue; this
// board only holds the latest snapshot.
package barberboard

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/sanskarkalal/nextcut-client/internal/api"
	"github.com/sanskarkalal/nextcut-client/internal/domain/queue"
)

// Client is the slice of the REST client the board needs. Walk-ins are
// seated by creating the customer account and joining on their behalf,
// which is why the auth calls are here too.
type Client interface {
	BarberQueue(ctx context.Context) (queue.Dashboard, error)
	RemoveUser(ctx context.Context, userID int64) (string, error)
	SignUpUser(ctx context.Context, name, phone string) (api.AuthResult, error)
	SignInUser(ctx context.Context, phone string) (api.AuthResult, error)
	JoinQueueAs(ctx context.Context, token string, barberID int64, svc queue.Service) error
}

// Feedback mirrors the toast surface of the user side.
type Feedback interface {
	Success(msg string)
	Error(msg string)
}

type Options struct {
	BarberID    int64
	UnitMinutes int // minutes per queued customer for the clear estimate
	Interval    time.Duration
	Clock       clockwork.Clock
	Logger      zerolog.Logger
}

type Board struct {
	client   Client
	feedback Feedback
	clock    clockwork.Clock
	log      zerolog.Logger
	barberID int64
	unitMin  int
	every    time.Duration

	mu       sync.Mutex
	cur      queue.Dashboard
	lastErr  error
	removing bool
}

func New(client Client, feedback Feedback, opts Options) *Board {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.UnitMinutes <= 0 {
		opts.UnitMinutes = 20
	}
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	return &Board{
		client:   client,
		feedback: feedback,
		clock:    opts.Clock,
		log:      opts.Logger.With().Str("component", "barberboard").Logger(),
		barberID: opts.BarberID,
		unitMin:  opts.UnitMinutes,
		every:    opts.Interval,
	}
}

// Refresh replaces the snapshot wholesale. A failed fetch keeps the old
// snapshot and records the error.
func (b *Board) Refresh(ctx context.Context) error {
	d, err := b.client.BarberQueue(ctx)
	if err != nil {
		b.mu.Lock()
		b.lastErr = err
		b.mu.Unlock()
		b.log.Warn().Err(err).Msg("queue refresh failed, keeping previous snapshot")
		return err
	}
	b.mu.Lock()
	b.cur = d
	b.lastErr = nil
	b.mu.Unlock()
	return nil
}

// RemoveUser marks a customer served and refreshes immediately. One
// removal at a time: the dashboard buttons stay honest.
func (b *Board) RemoveUser(ctx context.Context, userID int64, userName string) error {
	b.mu.Lock()
	if b.removing {
		b.mu.Unlock()
		return ErrRemovalInFlight
	}
	b.removing = true
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.removing = false
		b.mu.Unlock()
	}()

	name, err := b.client.RemoveUser(ctx, userID)
	if err != nil {
		if b.feedback != nil {
			b.feedback.Error(err.Error())
		}
		return err
	}
	if name == "" {
		name = userName
	}
	if b.feedback != nil {
		b.feedback.Success(name + " marked as served")
	}
	return b.Refresh(ctx)
}

// AddWalkIn seats a customer who walked in off the street: create (or
// recover) their account, then join them to this barber's queue under
// their own token so the membership is theirs, not the barber's.
func (b *Board) AddWalkIn(ctx context.Context, name, phone string, svc queue.Service) error {
	res, err := b.client.SignUpUser(ctx, name, phone)
	if err != nil {
		// The phone may already be registered; recover by signing in.
		res, err = b.client.SignInUser(ctx, phone)
		if err != nil {
			if b.feedback != nil {
				b.feedback.Error("Couldn't register the walk-in customer")
			}
			return err
		}
	}

	if err := b.client.JoinQueueAs(ctx, res.Token, b.barberID, svc); err != nil {
		if b.feedback != nil {
			b.feedback.Error(err.Error())
		}
		return err
	}
	if b.feedback != nil {
		b.feedback.Success(name + " added to the queue")
	}
	return b.Refresh(ctx)
}

// Snapshot returns a copy of the current dashboard.
func (b *Board) Snapshot() queue.Dashboard {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.cur
	d.Entries = append([]queue.DashboardEntry(nil), b.cur.Entries...)
	return d
}

// EstimatedClear is the minutes until the whole queue is worked off.
func (b *Board) EstimatedClear() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cur.Length * b.unitMin
}

// LastError is the most recent refresh failure, nil after a success.
func (b *Board) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Run keeps the snapshot fresh until ctx is cancelled.
func (b *Board) Run(ctx context.Context) {
	_ = b.Refresh(ctx)
	t := b.clock.NewTimer(b.every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			_ = b.Refresh(ctx)
			t.Reset(b.every)
		}
	}
}

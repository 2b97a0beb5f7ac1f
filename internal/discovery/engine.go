// Package discovery finds and ranks nearby barbers: one location grant,
// then periodic snapshot refreshes annotated with distance and wait.
// The auto-refresh pauses while the user is queued — no reason to shop
// around from inside a queue — and force-refreshes the moment they exit.
package discovery

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/sanskarkalal/nextcut-client/internal/domain/queue"
)

// BarberClient is the slice of the REST client discovery needs.
type BarberClient interface {
	NearbyBarbers(ctx context.Context, lat, long, radiusKm float64) ([]queue.Barber, error)
}

// Feedback is the loading/success surface for explicit refreshes.
// Silent background refreshes never touch it.
type Feedback interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
}

type Options struct {
	RadiusKm    float64
	UnitMinutes int // minutes per queued person, for the wait annotation
	Interval    time.Duration
	Clock       clockwork.Clock
	Logger      zerolog.Logger
}

type Engine struct {
	loc      Locator
	client   BarberClient
	feedback Feedback
	clock    clockwork.Clock
	log      zerolog.Logger
	radius   float64
	unitMin  int
	every    time.Duration

	wake chan struct{}

	mu      sync.Mutex
	coords  *Coords
	barbers []queue.Barber
	lastErr error
	paused  bool
}

func New(loc Locator, client BarberClient, feedback Feedback, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.RadiusKm <= 0 {
		opts.RadiusKm = 4
	}
	if opts.UnitMinutes <= 0 {
		opts.UnitMinutes = 15
	}
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	return &Engine{
		loc:      loc,
		client:   client,
		feedback: feedback,
		clock:    opts.Clock,
		log:      opts.Logger.With().Str("component", "discovery").Logger(),
		radius:   opts.RadiusKm,
		unitMin:  opts.UnitMinutes,
		every:    opts.Interval,
		wake:     make(chan struct{}, 1),
	}
}

// RequestLocation acquires a fix and immediately refreshes the barber
// list. Denied location is a silent user choice; other failures are
// surfaced through the feedback channel.
func (d *Engine) RequestLocation(ctx context.Context) error {
	fix, err := d.loc.Locate(ctx)
	if err != nil {
		var le *LocateError
		if errors.As(err, &le) && le.Kind == LocateDenied {
			d.log.Debug().Msg("location denied by user, discovery stays off")
			return err
		}
		if d.feedback != nil {
			d.feedback.Error(err.Error())
		}
		return err
	}

	d.mu.Lock()
	d.coords = &fix
	d.mu.Unlock()

	if d.feedback != nil {
		d.feedback.Success("Location found! Looking for barbers nearby...")
	}
	return d.Refresh(ctx)
}

// Refresh fetches and re-ranks the snapshot for the known fix, silently.
// The whole list is replaced on success; a failed fetch keeps the old
// list and records the error.
func (d *Engine) Refresh(ctx context.Context) error {
	d.mu.Lock()
	coords := d.coords
	d.mu.Unlock()
	if coords == nil {
		return nil // no fix yet, nothing to refresh
	}

	raw, err := d.client.NearbyBarbers(ctx, coords.Lat, coords.Long, d.radius)
	if err != nil {
		d.mu.Lock()
		d.lastErr = err
		d.mu.Unlock()
		d.log.Warn().Err(err).Msg("barber refresh failed, keeping previous list")
		return err
	}

	ranked := d.annotate(*coords, raw)

	d.mu.Lock()
	d.barbers = ranked
	d.lastErr = nil
	d.mu.Unlock()
	return nil
}

// ForceRefresh is Refresh with explicit user feedback, for right after
// the user exits a queue: queue lengths around them likely changed.
func (d *Engine) ForceRefresh(ctx context.Context) {
	d.mu.Lock()
	has := d.coords != nil
	d.mu.Unlock()
	if !has {
		return
	}
	if d.feedback != nil {
		d.feedback.Info("Refreshing barber list...")
	}
	if err := d.Refresh(ctx); err != nil {
		if d.feedback != nil {
			d.feedback.Error("Couldn't refresh the barber list. Will retry in the background.")
		}
		return
	}
	if d.feedback != nil {
		d.feedback.Success("Barber list updated!")
	}
}

// annotate computes per-barber distance and wait, then sorts ascending
// by distance. The sort is stable so equally-distant shops keep the
// server's relative order.
func (d *Engine) annotate(from Coords, raw []queue.Barber) []queue.Barber {
	out := make([]queue.Barber, len(raw))
	copy(out, raw)
	for i := range out {
		out[i].DistanceKm = Haversine(from, Coords{Lat: out[i].Lat, Long: out[i].Long})
		out[i].EstimatedWaitMin = out[i].QueueLength * d.unitMin
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// Pause stops the auto-refresh (active queue membership); Resume
// restarts it and nudges the loop so the first refresh happens now.
func (d *Engine) Pause() {
	d.mu.Lock()
	d.paused = true
	d.mu.Unlock()
}

func (d *Engine) Resume() {
	d.mu.Lock()
	d.paused = false
	d.mu.Unlock()
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Barbers returns a copy of the last ranked snapshot.
func (d *Engine) Barbers() []queue.Barber {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]queue.Barber, len(d.barbers))
	copy(out, d.barbers)
	return out
}

// HasLocation reports whether a fix is known.
func (d *Engine) HasLocation() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.coords != nil
}

// LastError is the most recent background refresh failure, nil after a
// success.
func (d *Engine) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// Run refreshes on the fixed interval until ctx is cancelled, skipping
// ticks while paused or before a fix is known.
func (d *Engine) Run(ctx context.Context) {
	t := d.clock.NewTimer(d.every)
	defer func() {
		if !t.Stop() {
			select {
			case <-t.Chan():
			default:
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.wake:
			if !t.Stop() {
				select {
				case <-t.Chan():
				default:
				}
			}
			t.Reset(d.every)
			d.tick(ctx)
		case <-t.Chan():
			t.Reset(d.every)
			d.tick(ctx)
		}
	}
}

func (d *Engine) tick(ctx context.Context) {
	d.mu.Lock()
	skip := d.paused || d.coords == nil
	d.mu.Unlock()
	if skip {
		return
	}
	_ = d.Refresh(ctx)
}

// Package notify fans one queue event out to up to three channels: an
// in-app toast, a desktop notification, and a short tone. Every channel
// is best-effort; a missing desktop daemon or a mute machine never
// blocks the others.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"

	"github.com/sanskarkalal/nextcut-client/internal/domain/events"
)

// Toaster is the in-app channel. The CLI installs a terminal renderer;
// tests install a recorder.
type Toaster interface {
	Success(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

const appTitle = "NextCut"

// dedupTTL suppresses a repeat of the same event kind arriving right
// behind the previous one, so a burst replaces rather than stacks.
const dedupTTL = 3 * time.Second

type Emitter struct {
	toast Toaster
	log   zerolog.Logger
	sound bool

	// injectable for tests; default to beeep
	notifyFn func(title, body string) error
	alertFn  func(title, body string) error
	beepFn   func(freq float64, ms int) error

	enableOnce sync.Once
	desktopOK  bool

	recent sync.Map // kind -> last desktop delivery
	now    func() time.Time
}

func NewEmitter(toast Toaster, sound bool, log zerolog.Logger) *Emitter {
	return &Emitter{
		toast: toast,
		log:   log.With().Str("component", "notify").Logger(),
		sound: sound,
		notifyFn: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
		alertFn: func(title, body string) error {
			return beeep.Alert(title, body, "")
		},
		beepFn: beeep.Beep,
		now:    time.Now,
	}
}

// Attach subscribes the emitter to queue updates on the bus and returns
// the cancel func.
func (e *Emitter) Attach(bus *events.Bus) func() {
	return events.Subscribe(bus, e.Emit)
}

// Emit dispatches one event to the toast, desktop, and tone channels.
// The desktop channel is enabled lazily on the first joined event —
// never earlier — and re-enabling is a no-op.
func (e *Emitter) Emit(ev events.QueueUpdate) {
	if ev.Kind == events.KindJoined {
		e.ensureDesktop()
	}

	title, body, toastKind := e.compose(ev)
	e.deliverToast(toastKind, body)
	e.deliverDesktop(ev.Kind, title, body)
	e.deliverTone(ev.Kind)
}

type toastKind int

const (
	toastSuccess toastKind = iota
	toastInfo
	toastWarn
)

func (e *Emitter) compose(ev events.QueueUpdate) (title, body string, kind toastKind) {
	switch ev.Kind {
	case events.KindJoined:
		if ev.Position == 1 {
			return "You're Next!", fmt.Sprintf("You're next at %s!", ev.BarberName), toastSuccess
		}
		if ev.Position > 0 {
			return "Joined Queue", fmt.Sprintf("Joined %s's queue at position #%d.", ev.BarberName, ev.Position), toastSuccess
		}
		return "Joined Queue", fmt.Sprintf("Joined %s's queue.", ev.BarberName), toastSuccess

	case events.KindNext:
		return "You're Next in Line!", fmt.Sprintf("You're next! %s will see you soon. Please stay nearby.", ev.BarberName), toastSuccess

	case events.KindImproved:
		return "Queue Update", fmt.Sprintf("You moved up %s! Now #%d in %s's queue.",
			plural(ev.Magnitude, "position"), ev.Position, ev.BarberName), toastSuccess

	case events.KindWorsened:
		return "Queue Update", fmt.Sprintf("You moved down %s to #%d. Someone may have joined ahead.",
			plural(ev.Magnitude, "position"), ev.Position), toastWarn

	case events.KindLeft:
		return "Your Turn!", fmt.Sprintf("You've left the queue. Thanks for visiting %s!", ev.BarberName), toastSuccess
	}
	return appTitle, fmt.Sprintf("Queue update at %s.", ev.BarberName), toastInfo
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func (e *Emitter) deliverToast(kind toastKind, msg string) {
	if e.toast == nil {
		return
	}
	switch kind {
	case toastWarn:
		e.toast.Warn(msg)
	case toastInfo:
		e.toast.Info(msg)
	default:
		e.toast.Success(msg)
	}
}

// ensureDesktop probes the desktop channel once per process. Probing an
// already-enabled channel is a no-op.
func (e *Emitter) ensureDesktop() {
	e.enableOnce.Do(func() {
		if err := e.notifyFn(appTitle, "Queue updates enabled. We'll keep you posted on your position."); err != nil {
			e.log.Debug().Err(err).Msg("desktop notifications unavailable, staying toast-only")
			return
		}
		e.desktopOK = true
	})
}

func (e *Emitter) deliverDesktop(kind events.Kind, title, body string) {
	if !e.desktopOK {
		return
	}
	if !e.allowOnce(kind) {
		return
	}
	var err error
	if kind == events.KindNext {
		// Alert is the attention-demanding variant.
		err = e.alertFn(title, body)
	} else {
		err = e.notifyFn(title, body)
	}
	if err != nil {
		e.log.Debug().Err(err).Str("kind", string(kind)).Msg("desktop notification failed")
	}
}

// allowOnce is the per-kind dedup tag: rapid repeats within the TTL are
// dropped instead of stacking.
func (e *Emitter) allowOnce(kind events.Kind) bool {
	now := e.now()
	if v, ok := e.recent.Load(kind); ok {
		if now.Sub(v.(time.Time)) < dedupTTL {
			return false
		}
	}
	e.recent.Store(kind, now)
	return true
}

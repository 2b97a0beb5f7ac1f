// Package app wires the client together: session, REST client, sync
// engine, discovery, notifications, and the terminal prompt. It owns
// process lifecycle; the packages underneath own their own state.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/sanskarkalal/nextcut-client/internal/api"
	"github.com/sanskarkalal/nextcut-client/internal/barberboard"
	"github.com/sanskarkalal/nextcut-client/internal/discovery"
	"github.com/sanskarkalal/nextcut-client/internal/domain/events"
	"github.com/sanskarkalal/nextcut-client/internal/engine"
	"github.com/sanskarkalal/nextcut-client/internal/notify"
	"github.com/sanskarkalal/nextcut-client/internal/session"
	"github.com/sanskarkalal/nextcut-client/internal/ui"
	"github.com/sanskarkalal/nextcut-client/pkg/config"
)

type App struct {
	Cfg    *config.Config
	Log    zerolog.Logger
	Bus    *events.Bus
	Store  *session.Store
	Client *api.Client
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, err := session.Open(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	a := &App{
		Cfg:   cfg,
		Log:   log,
		Bus:   events.NewBus(),
		Store: store,
	}
	a.Client = api.New(cfg.APIBaseURL, cfg.RequestTimeout, store, log)
	// A 401 anywhere means the token is dead: forget it and tell the
	// rest of the process.
	a.Client.OnSessionExpired(func() {
		store.Clear()
		events.Publish(a.Bus, events.SessionExpired{})
	})
	return a, nil
}

func (a *App) Session() session.Session { return a.Store.Current() }

// ------------------- auth -------------------

func (a *App) SignInUser(ctx context.Context, phone string) error {
	res, err := a.Client.SignInUser(ctx, phone)
	if err != nil {
		return err
	}
	return a.Store.Save(session.Session{Token: res.Token, Role: session.RoleUser, User: res.User})
}

func (a *App) SignUpUser(ctx context.Context, name, phone string) error {
	res, err := a.Client.SignUpUser(ctx, name, phone)
	if err != nil {
		return err
	}
	return a.Store.Save(session.Session{Token: res.Token, Role: session.RoleUser, User: res.User})
}

func (a *App) SignInBarber(ctx context.Context, username, password string) error {
	res, err := a.Client.SignInBarber(ctx, username, password)
	if err != nil {
		return err
	}
	return a.Store.Save(session.Session{Token: res.Token, Role: session.RoleBarber, Barber: res.Barber})
}

func (a *App) SignUpBarber(ctx context.Context, name, username, password string, lat, long float64) error {
	res, err := a.Client.SignUpBarber(ctx, name, username, password, lat, long)
	if err != nil {
		return err
	}
	return a.Store.Save(session.Session{Token: res.Token, Role: session.RoleBarber, Barber: res.Barber})
}

func (a *App) SignOut() { a.Store.Clear() }

// ------------------- run loops -------------------

// RunUser drives the customer experience: poll membership, watch for
// transitions, keep the nearby list warm, and read commands until quit
// or a dead session.
func (a *App) RunUser(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	toast := ui.NewTermToaster(out)
	cancelToast := notify.NewEmitter(toast, a.Cfg.SoundOn, a.Log).Attach(a.Bus)
	defer cancelToast()

	eng := engine.New(a.Client, a.Bus, engine.Options{
		ActiveInterval: a.Cfg.ActivePollInterval,
		IdleInterval:   a.Cfg.IdlePollInterval,
		RequestTimeout: a.Cfg.RequestTimeout,
		UnitMinutes:    a.Cfg.ServiceUnitMinutes,
		Logger:         a.Log,
	})

	locator := discovery.NewIPLocator(a.Cfg.GeoEndpoint, a.Cfg.GeoTimeout, a.Cfg.GeoMaxFixAge, clockwork.NewRealClock())
	find := discovery.New(locator, a.Client, toast, discovery.Options{
		RadiusKm:    a.Cfg.SearchRadiusKm,
		UnitMinutes: a.Cfg.ServiceUnitMinutes,
		Interval:    a.Cfg.DiscoveryInterval,
		Logger:      a.Log,
	})

	cancelSubs := a.startSubscribers(find, toast, cancel)
	defer cancelSubs()

	go eng.Run(ctx)
	go find.Run(ctx)

	// Denied location is a choice the prompt already explains; anything
	// else was surfaced through the toast channel.
	_ = find.RequestLocation(ctx)

	if u := a.Store.Current().User; u != nil {
		fmt.Fprintf(out, "Welcome back, %s. Type `help` for commands.\n", u.Name)
	}
	ui.NewUserRepl(out, eng, find, a.Cfg.ServiceUnitMinutes, a.Log).Run(ctx, in)

	eng.Stop()
	return nil
}

// RunBarber drives the shop-side dashboard.
func (a *App) RunBarber(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := a.Store.Current()
	var barberID int64
	name := "there"
	if sess.Barber != nil {
		barberID = sess.Barber.ID
		name = sess.Barber.Name
	}

	toast := ui.NewTermToaster(out)
	board := barberboard.New(a.Client, toast, barberboard.Options{
		BarberID:    barberID,
		UnitMinutes: a.Cfg.BarberUnitMinutes,
		Interval:    a.Cfg.IdlePollInterval,
		Logger:      a.Log,
	})

	cancelExpired := events.Subscribe(a.Bus, func(events.SessionExpired) {
		toast.Error("Session expired. Please sign in again.")
		cancel()
	})
	defer cancelExpired()

	go board.Run(ctx)

	if err := board.Refresh(ctx); err != nil {
		toast.Error(fmt.Sprintf("couldn't load your queue: %v", err))
	}
	fmt.Fprintf(out, "Hi %s. Type `help` for commands.\n", name)
	ui.NewBarberRepl(out, board, a.Log).Run(ctx, in)
	return nil
}

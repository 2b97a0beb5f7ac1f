// Command nextcut is the terminal client for the NextCut walk-in queue.
//
// this binary:
//  1. loads config from environment variables (.env during dev)
//  2. restores the saved session, or runs an auth subcommand
//  3. starts the role-appropriate loop: queue watcher for customers,
//     dashboard for barbers
//  4. waits for `quit` or SIGINT/SIGTERM to exit cleanly
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/sanskarkalal/nextcut-client/internal/app"
	"github.com/sanskarkalal/nextcut-client/internal/session"
	"github.com/sanskarkalal/nextcut-client/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Debug)
	log.Debug().Str("config", cfg.Redacted()).Msg("starting")

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	// SIGINT/SIGTERM cancel the root context; the prompt loop and the
	// pollers all hang off it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, a, os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("exit")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, args []string) error {
	if len(args) > 0 {
		return runCommand(ctx, a, args)
	}

	sess := a.Session()
	if !sess.SignedIn() {
		usage(os.Stdout)
		return nil
	}
	switch sess.Role {
	case session.RoleBarber:
		return a.RunBarber(ctx, os.Stdin, os.Stdout)
	default:
		return a.RunUser(ctx, os.Stdin, os.Stdout)
	}
}

func runCommand(ctx context.Context, a *app.App, args []string) error {
	switch args[0] {

	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: nextcut login <phone>")
		}
		if err := a.SignInUser(ctx, args[1]); err != nil {
			return fmt.Errorf("sign in: %w", err)
		}
		return a.RunUser(ctx, os.Stdin, os.Stdout)

	case "register":
		if len(args) != 3 {
			return fmt.Errorf("usage: nextcut register <name> <phone>")
		}
		if err := a.SignUpUser(ctx, args[1], args[2]); err != nil {
			return fmt.Errorf("sign up: %w", err)
		}
		return a.RunUser(ctx, os.Stdin, os.Stdout)

	case "barber-login":
		if len(args) != 3 {
			return fmt.Errorf("usage: nextcut barber-login <username> <password>")
		}
		if err := a.SignInBarber(ctx, args[1], args[2]); err != nil {
			return fmt.Errorf("sign in: %w", err)
		}
		return a.RunBarber(ctx, os.Stdin, os.Stdout)

	case "logout":
		a.SignOut()
		fmt.Println("Signed out.")
		return nil

	case "help", "-h", "--help":
		usage(os.Stdout)
		return nil

	default:
		usage(os.Stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w *os.File) {
	fmt.Fprintln(w, "nextcut - walk-in barber queues from your terminal")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  nextcut                               resume your session")
	fmt.Fprintln(w, "  nextcut login <phone>                 sign in as a customer")
	fmt.Fprintln(w, "  nextcut register <name> <phone>       create a customer account")
	fmt.Fprintln(w, "  nextcut barber-login <user> <pass>    sign in as a barber")
	fmt.Fprintln(w, "  nextcut logout                        forget the saved session")
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

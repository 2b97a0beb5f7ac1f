// internal/ui/repl.go
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sanskarkalal/nextcut-client/internal/discovery"
	"github.com/sanskarkalal/nextcut-client/internal/domain/queue"
)

// QueueControl is the slice of the sync engine the prompt drives.
type QueueControl interface {
	Membership() queue.Membership
	EstimatedWait() int
	JoinQueue(ctx context.Context, barberID int64, barberName string, svc queue.Service) error
	LeaveQueue(ctx context.Context) error
	RefreshStatus(ctx context.Context) error
}

// Finder is the slice of the discovery engine the prompt drives.
type Finder interface {
	Barbers() []queue.Barber
	ForceRefresh(ctx context.Context)
	HasLocation() bool
}

// DashboardControl drives the barber-side board.
type DashboardControl interface {
	Snapshot() queue.Dashboard
	EstimatedClear() int
	Refresh(ctx context.Context) error
	RemoveUser(ctx context.Context, userID int64, userName string) error
	AddWalkIn(ctx context.Context, name, phone string, svc queue.Service) error
}

type handler func(ctx context.Context, args []string)

type command struct {
	name  string
	usage string
	about string
	run   handler
}

// Repl reads commands from a terminal and routes them to the engines.
// One table per role; `help` and `quit` are shared.
type Repl struct {
	out      io.Writer
	log      zerolog.Logger
	unitMin  int
	commands []command

	qc    QueueControl
	find  Finder
	board DashboardControl
}

// NewUserRepl builds the customer-facing prompt.
func NewUserRepl(out io.Writer, qc QueueControl, find Finder, unitMin int, log zerolog.Logger) *Repl {
	r := &Repl{out: out, log: log, unitMin: unitMin, qc: qc, find: find}
	r.commands = []command{
		{"status", "status", "show your place in the queue", r.cmdStatus},
		{"barbers", "barbers", "list barbers near you", r.cmdBarbers},
		{"refresh", "refresh", "re-fetch the nearby list now", r.cmdRefresh},
		{"join", "join <#> [service]", "join barber # from the list", r.cmdJoin},
		{"map", "map <#>", "directions link for barber # from the list", r.cmdMap},
		{"leave", "leave", "leave your current queue", r.cmdLeave},
		{"services", "services", "show the service menu", r.cmdServices},
	}
	return r
}

// NewBarberRepl builds the shop-side prompt.
func NewBarberRepl(out io.Writer, board DashboardControl, log zerolog.Logger) *Repl {
	r := &Repl{out: out, log: log, board: board}
	r.commands = []command{
		{"queue", "queue", "show your queue", r.cmdQueue},
		{"remove", "remove <#>", "serve/remove entry # from the queue", r.cmdRemove},
		{"walkin", "walkin <name> <phone> [service]", "add a walk-in customer", r.cmdWalkIn},
		{"refresh", "refresh", "re-fetch the queue now", r.cmdBoardRefresh},
	}
	return r
}

// Run reads lines until EOF, ctx cancellation, or `quit`. The reader
// lives on its own goroutine so a cancelled ctx interrupts the prompt
// instead of waiting for the next Enter.
func (r *Repl) Run(ctx context.Context, in io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(r.out, "> ")
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if !r.Dispatch(ctx, line) {
				return
			}
		}
	}
}

// Dispatch routes one input line. Returns false on `quit`.
func (r *Repl) Dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return true
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "quit", "exit":
		return false
	case "help":
		r.cmdHelp()
		return true
	}

	for _, c := range r.commands {
		if c.name == name {
			r.log.Debug().Str("cmd", name).Msg("dispatch")
			c.run(ctx, args)
			return true
		}
	}
	fmt.Fprintf(r.out, "unknown command %q, try `help`\n", name)
	return true
}

func (r *Repl) cmdHelp() {
	for _, c := range r.commands {
		fmt.Fprintf(r.out, "  %-34s %s\n", c.usage, c.about)
	}
	fmt.Fprintf(r.out, "  %-34s %s\n", "help", "this list")
	fmt.Fprintf(r.out, "  %-34s %s\n", "quit", "sign off")
}

// ------------------- customer commands -------------------

func (r *Repl) cmdStatus(ctx context.Context, _ []string) {
	if err := r.qc.RefreshStatus(ctx); err != nil {
		fmt.Fprintf(r.out, "⚠️ couldn't refresh: %v (showing last known)\n", err)
	}
	fmt.Fprint(r.out, RenderMembership(r.qc.Membership(), r.unitMin))
	fmt.Fprintln(r.out)
}

func (r *Repl) cmdBarbers(_ context.Context, _ []string) {
	if !r.find.HasLocation() {
		fmt.Fprintln(r.out, "No location fix yet, distances unavailable. Try `refresh`.")
	}
	fmt.Fprint(r.out, RenderBarbers(r.find.Barbers()))
}

func (r *Repl) cmdRefresh(ctx context.Context, _ []string) {
	r.find.ForceRefresh(ctx)
	fmt.Fprint(r.out, RenderBarbers(r.find.Barbers()))
}

func (r *Repl) cmdJoin(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "usage: join <#> [service]")
		return
	}
	idx, err := strconv.Atoi(args[0])
	list := r.find.Barbers()
	if err != nil || idx < 1 || idx > len(list) {
		fmt.Fprintf(r.out, "pick a barber between 1 and %d (see `barbers`)\n", len(list))
		return
	}
	svc := queue.ServiceHaircut
	if len(args) > 1 {
		parsed, ok := queue.ParseService(args[1])
		if !ok {
			fmt.Fprintf(r.out, "unknown service %q\n%s\n", args[1], RenderServices())
			return
		}
		svc = parsed
	}
	target := list[idx-1]
	if err := r.qc.JoinQueue(ctx, target.ID, target.Name, svc); err != nil {
		fmt.Fprintf(r.out, "⚠️ join failed: %v\n", err)
		return
	}
	fmt.Fprint(r.out, RenderMembership(r.qc.Membership(), r.unitMin))
}

func (r *Repl) cmdMap(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "usage: map <#>")
		return
	}
	idx, err := strconv.Atoi(args[0])
	list := r.find.Barbers()
	if err != nil || idx < 1 || idx > len(list) {
		fmt.Fprintf(r.out, "pick a barber between 1 and %d (see `barbers`)\n", len(list))
		return
	}
	target := list[idx-1]
	fmt.Fprintln(r.out, discovery.MapsURL(target.Lat, target.Long, target.Name))
}

func (r *Repl) cmdLeave(ctx context.Context, _ []string) {
	if err := r.qc.LeaveQueue(ctx); err != nil {
		fmt.Fprintf(r.out, "⚠️ leave failed: %v\n", err)
	}
}

func (r *Repl) cmdServices(_ context.Context, _ []string) {
	fmt.Fprintln(r.out, RenderServices())
}

// ------------------- barber commands -------------------

func (r *Repl) cmdQueue(ctx context.Context, _ []string) {
	if err := r.board.Refresh(ctx); err != nil {
		fmt.Fprintf(r.out, "⚠️ couldn't refresh: %v (showing last known)\n", err)
	}
	fmt.Fprint(r.out, RenderDashboard(r.board.Snapshot(), r.board.EstimatedClear()))
}

func (r *Repl) cmdRemove(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "usage: remove <#>")
		return
	}
	pos, err := strconv.Atoi(args[0])
	snap := r.board.Snapshot()
	if err != nil || pos < 1 || pos > len(snap.Entries) {
		fmt.Fprintf(r.out, "pick an entry between 1 and %d (see `queue`)\n", len(snap.Entries))
		return
	}
	entry := snap.Entries[pos-1]
	if err := r.board.RemoveUser(ctx, entry.UserID, entry.UserName); err != nil {
		fmt.Fprintf(r.out, "⚠️ remove failed: %v\n", err)
	}
}

func (r *Repl) cmdWalkIn(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(r.out, "usage: walkin <name> <phone> [service]")
		return
	}
	svc := queue.ServiceHaircut
	if len(args) > 2 {
		parsed, ok := queue.ParseService(args[2])
		if !ok {
			fmt.Fprintf(r.out, "unknown service %q\n%s\n", args[2], RenderServices())
			return
		}
		svc = parsed
	}
	if err := r.board.AddWalkIn(ctx, args[0], args[1], svc); err != nil {
		fmt.Fprintf(r.out, "⚠️ walk-in failed: %v\n", err)
		return
	}
	fmt.Fprint(r.out, RenderDashboard(r.board.Snapshot(), r.board.EstimatedClear()))
}

func (r *Repl) cmdBoardRefresh(ctx context.Context, _ []string) {
	if err := r.board.Refresh(ctx); err != nil {
		fmt.Fprintf(r.out, "⚠️ refresh failed: %v\n", err)
		return
	}
	fmt.Fprint(r.out, RenderDashboard(r.board.Snapshot(), r.board.EstimatedClear()))
}

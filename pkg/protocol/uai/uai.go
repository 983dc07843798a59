// Package uai contains a driver for using the engine under the UAI protocol,
// a UCI-style text protocol for Ataxx.
package uai

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/loopback7/heptana/pkg/board"
	"github.com/loopback7/heptana/pkg/board/fen"
	"github.com/loopback7/heptana/pkg/engine"
	"github.com/loopback7/heptana/pkg/search"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
)

const ProtocolName = "uai"

// Driver implements a UAI driver for an engine. It is activated if sent "uai".
type Driver struct {
	e *engine.Engine

	out chan<- string

	active atomic.Bool    // true while the controller is waiting for a bestmove
	ponder chan search.PV // completed iterations, relayed to the output loop

	quit   chan struct{}
	closed atomic.Bool
}

// NewDriver starts processing lines from in, emitting protocol replies on the
// returned channel, until in closes or quit is sent.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		out:    out,
		ponder: make(chan search.PV, 400),
		quit:   make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

// Close requests the driver stop. Idempotent.
func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UAI protocol initialized")

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}
			if !d.dispatch(ctx, line) {
				return
			}

		case pv := <-d.ponder:
			if d.active.Load() {
				d.out <- "info " + pv.String()
			}

		case <-d.quit:
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// dispatch handles one input line by exact-string command match. A malformed
// or unrecognized line is silently ignored rather than treated as an error,
// per protocol. Returns false if the driver should stop.
func (d *Driver) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "uai":
		d.out <- fmt.Sprintf("id name %v", d.e.Name())
		d.out <- fmt.Sprintf("id author %v", d.e.Author())
		d.out <- "option name Hash type spin default 16 min 1 max 65536"
		d.out <- "option name Threads type spin default 1 min 1 max 512"
		d.out <- "uaiok"

	case "isready":
		d.out <- "readyok"

	case "uainewgame":
		d.ensureInactive(ctx)
		if err := d.e.Reset(ctx, fen.Initial); err != nil {
			d.out <- fmt.Sprintf("info string reset failed: %v", err)
		}

	case "setoption":
		d.setOption(ctx, args)

	case "position":
		d.position(ctx, args)

	case "go":
		d.go_(ctx, args)

	case "stop":
		pv, err := d.e.Halt(ctx)
		if err == nil {
			d.searchCompleted(pv)
		}

	case "quit":
		return false

	default:
		// Unrecognized command: ignored, per protocol.
	}
	return true
}

func (d *Driver) setOption(ctx context.Context, args []string) {
	var name, value string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "name":
			if i+1 < len(args) {
				name = args[i+1]
			}
		case "value":
			if i+1 < len(args) {
				value = args[i+1]
			}
		}
	}

	switch name {
	case "Hash":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			d.out <- fmt.Sprintf("info string invalid Hash value %q, keeping previous size", value)
			return
		}
		d.e.SetHash(ctx, uint(n))
	case "Threads":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			d.out <- fmt.Sprintf("info string invalid Threads value %q, ignored", value)
			return
		}
		d.e.SetThreads(uint(n))
	default:
		d.out <- fmt.Sprintf("info string unknown option %q", name)
	}
}

func (d *Driver) position(ctx context.Context, args []string) {
	d.ensureInactive(ctx)

	if len(args) == 0 {
		return
	}

	position := fen.Initial
	rest := args
	switch args[0] {
	case "startpos":
		rest = args[1:]
	case "fen":
		if len(args) < 5 {
			d.out <- "info string invalid fen: too few fields"
			return
		}
		position = strings.Join(args[1:5], " ")
		rest = args[5:]
	}

	if err := d.e.Reset(ctx, position); err != nil {
		d.out <- fmt.Sprintf("info string invalid position %q: %v, keeping previous position", position, err)
		return
	}

	move := false
	for _, arg := range rest {
		if arg == "moves" {
			move = true
			continue
		}
		if !move {
			continue
		}
		if err := d.e.Move(ctx, arg); err != nil {
			d.out <- fmt.Sprintf("info string illegal move %q dropped: %v", arg, err)
			return
		}
	}
}

func (d *Driver) go_(ctx context.Context, args []string) {
	d.ensureInactive(ctx)

	limits, timeout := parseGoArgs(args, d.e.Board().Turn())

	handle, err := d.e.Analyze(ctx, limits, func(pv search.PV) {
		d.ponder <- pv
	})
	if err != nil {
		d.out <- fmt.Sprintf("info string analyze failed: %v", err)
		return
	}
	d.active.Store(true)

	go func() {
		pv := handle.Halt()
		d.searchCompleted(pv)
	}()

	if timeout > 0 {
		time.AfterFunc(timeout, func() {
			_, _ = d.e.Halt(ctx)
		})
	}
}

// parseGoArgs translates "go" tokens into search Limits. movetime, if given,
// is returned separately so the caller can enforce it with a hard deadline:
// Limits.MoveTime already budgets it, but go's MoveTime is clamped inside the
// search; this is a belt-and-braces stop in case a worker runs long.
func parseGoArgs(args []string, turn board.Color) (search.Limits, time.Duration) {
	var limits search.Limits
	var movetime time.Duration

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			limits.Infinite = true
		case "wtime", "btime", "winc", "binc", "movestogo", "depth", "movetime", "nodes", "mate":
			i++
			if i >= len(args) {
				break
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				break
			}
			switch args[i-1] {
			case "wtime":
				if turn == board.X {
					limits.TimeLeft = time.Duration(n) * time.Millisecond
				}
			case "btime":
				if turn == board.O {
					limits.TimeLeft = time.Duration(n) * time.Millisecond
				}
			case "winc":
				if turn == board.X {
					limits.Increment = time.Duration(n) * time.Millisecond
				}
			case "binc":
				if turn == board.O {
					limits.Increment = time.Duration(n) * time.Millisecond
				}
			case "movestogo":
				limits.MovesToGo = n
			case "depth":
				limits.Depth = n
			case "nodes":
				limits.Nodes = uint64(n)
			case "movetime":
				movetime = time.Duration(n) * time.Millisecond
				limits.MoveTime = movetime
			case "mate":
				// Mate-in-y search is not distinguished from a normal search:
				// a found forced mate simply surfaces as a mate score.
			}
		}
	}
	return limits, movetime
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

// searchCompleted emits the final info line and bestmove, guarding against a
// stale report racing a later "go"/"stop" by checking CAS on active.
func (d *Driver) searchCompleted(pv search.PV) {
	if d.active.CAS(true, false) {
		if len(pv.Moves) > 0 {
			d.out <- "info " + pv.String()
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		} else {
			d.out <- "bestmove 0000"
		}
	}
}

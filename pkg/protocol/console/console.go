// Package console contains a human-readable debug driver for the engine,
// useful for interactive testing outside a UAI controller.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/loopback7/heptana/pkg/board"
	"github.com/loopback7/heptana/pkg/board/fen"
	"github.com/loopback7/heptana/pkg/engine"
	"github.com/loopback7/heptana/pkg/eval"
	"github.com/loopback7/heptana/pkg/search"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
)

const ProtocolName = "console"

// Driver implements a console driver for debugging.
type Driver struct {
	e *engine.Engine

	out chan<- string

	active atomic.Bool
	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:    e,
		out:  out,
		quit: make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

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

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.e.Name(), d.e.Author())
	d.printBoard()

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			fields := strings.Fields(line)
			if len(fields) == 0 {
				break
			}
			cmd, args := fields[0], fields[1:]

			switch strings.ToLower(cmd) {
			case "reset", "r":
				d.ensureInactive(ctx)

				pos := fen.Initial
				rest := args
				if len(args) > 0 && args[0] != "moves" {
					pos = strings.Join(args[0:4], " ")
					rest = args[4:]
				}
				if err := d.e.Reset(ctx, pos); err != nil {
					d.out <- fmt.Sprintf("invalid position: %v", err)
					break
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
						d.out <- fmt.Sprintf("invalid move %q: %v", arg, err)
						break
					}
				}
				d.printBoard()

			case "undo", "u":
				d.ensureInactive(ctx)
				_ = d.e.TakeBack(ctx)
				d.printBoard()

			case "print", "p":
				d.printBoard()

			case "perft":
				depth := 4
				if len(args) > 0 {
					if n, err := strconv.Atoi(args[0]); err == nil {
						depth = n
					}
				}
				d.perft(depth)

			case "eval":
				d.out <- fmt.Sprintf("eval: %v", eval.Material{}.Evaluate(ctx, d.e.Board().Position()))

			case "analyze", "a":
				d.ensureInactive(ctx)

				var limits search.Limits
				if len(args) > 0 {
					depth, _ := strconv.Atoi(args[0])
					limits.Depth = depth
				}

				handle, err := d.e.Analyze(ctx, limits, func(pv search.PV) {
					d.out <- pv.String()
				})
				if err != nil {
					d.out <- fmt.Sprintf("analyze failed: %v", err)
					break
				}
				d.active.Store(true)

				go func() {
					pv := handle.Halt()
					d.searchCompleted(pv)
				}()

			case "depth", "d":
				if len(args) > 0 {
					depth, _ := strconv.Atoi(args[0])
					d.e.SetDepth(uint(depth))
				}

			case "hash":
				if len(args) > 0 {
					hash, _ := strconv.Atoi(args[0])
					d.e.SetHash(ctx, uint(hash))
				}

			case "threads":
				if len(args) > 0 {
					threads, _ := strconv.Atoi(args[0])
					d.e.SetThreads(uint(threads))
				}

			case "halt", "stop":
				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.searchCompleted(pv)
				}

			case "quit", "exit", "q":
				d.ensureInactive(ctx)
				return

			default:
				// Assume a move if not a recognized command.

				d.ensureInactive(ctx)
				if err := d.e.Move(ctx, cmd); err != nil {
					d.out <- fmt.Sprintf("invalid move: %q", cmd)
				} else {
					d.printBoard()
				}
			}

		case <-d.quit:
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(pv search.PV) {
	if d.active.CAS(true, false) {
		if len(pv.Moves) > 0 {
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		} else {
			d.out <- "bestmove 0000"
		}
	}
}

func (d *Driver) perft(depth int) {
	b := d.e.Board()
	pos := b.Position()
	turn := b.Turn()

	for i := 1; i <= depth; i++ {
		nodes := perftCount(pos, turn, i)
		d.out <- fmt.Sprintf("perft %v: %v", i, nodes)
	}
}

func perftCount(pos *board.Position, turn board.Color, depth int) int64 {
	if depth == 0 {
		return 1
	}
	var nodes int64
	for _, m := range pos.LegalMoves(turn) {
		pos.Make(m)
		nodes += perftCount(pos, turn.Opponent(), depth-1)
		pos.Unmake()
	}
	return nodes
}

const (
	files      = "   a  b  c  d  e  f  g"
	horizontal = "  ---------------------"
	vertical   = " | "
)

func (d *Driver) printBoard() {
	b := d.e.Board()
	p := b.Position()

	d.out <- ""
	d.out <- files
	d.out <- horizontal
	for r := int(board.BoardRanks) - 1; r >= 0; r-- {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%d", r+1) + vertical)
		for f := board.File(0); f < board.BoardFiles; f++ {
			if c, ok := p.Square(board.NewSquare(f, board.Rank(r))); ok {
				sb.WriteString(c.String() + " ")
			} else {
				sb.WriteString(". ")
			}
		}
		d.out <- sb.String()
	}
	d.out <- horizontal
	d.out <- files
	d.out <- ""
	d.out <- fmt.Sprintf("fen:    %v", d.e.Position())
	d.out <- fmt.Sprintf("result: %v, ply: %v, hash: 0x%x", b.Result(), b.Ply(), b.Hash())
	d.out <- ""
}

// Package engine wires together board, eval, tt and search into the
// game-playing facade the protocol drivers operate on.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/loopback7/heptana/pkg/board"
	"github.com/loopback7/heptana/pkg/board/fen"
	"github.com/loopback7/heptana/pkg/eval"
	"github.com/loopback7/heptana/pkg/search"
	"github.com/loopback7/heptana/pkg/tt"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

// Options are runtime search options, mutated by the protocol's setoption.
type Options struct {
	// Depth is the search depth limit. Zero means no limit.
	Depth uint
	// Hash is the transposition table size in MB.
	Hash uint
	// Threads is the number of search worker goroutines.
	Threads uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%vMB, threads=%v}", o.Depth, o.Hash, o.Threads)
}

const (
	defaultHashMB  = 16
	defaultThreads = 1
)

// Engine encapsulates game state, the shared transposition table, and the
// currently active search, if any.
type Engine struct {
	name, author string

	zt   *board.ZobristTable
	seed int64
	opts Options

	b      *board.Board
	table  *tt.Table
	active *search.Handle
	mu     sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithZobrist configures the engine to use the given random seed instead of
// the default.
func WithZobrist(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// New creates a new engine, reset to the initial position.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:   name,
		author: author,
		opts:   Options{Hash: defaultHashMB, Threads: defaultThreads},
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed)

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

// SetHash resizes the transposition table, discarding its contents.
func (e *Engine) SetHash(ctx context.Context, sizeMB uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = sizeMB
	e.table = tt.New(uint64(sizeMB) << 20)
	logw.Infof(ctx, "Resized hash: %vMB", sizeMB)
}

func (e *Engine) SetThreads(threads uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Threads = threads
}

// Board returns a forked board, safe to read concurrently with engine use.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b.Fork()
}

// Position returns the current position in FEN format.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.b.Position(), e.b.FullMoves())
}

// Reset resets the engine to the position described by the given FEN string,
// e.g. after a "uainewgame"/"position" pair.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, opts=%v", position, e.opts)

	e.haltSearchIfActiveLocked(ctx)

	pos, _, _, fullmoves, err := fen.Decode(e.zt, position)
	if err != nil {
		return err
	}
	e.b = board.NewBoard(e.zt, pos, fullmoves)

	if e.table == nil {
		e.table = tt.New(uint64(e.opts.Hash) << 20)
	} else {
		e.table.Clear()
	}

	logw.Infof(ctx, "New board: %v", e.b)
	return nil
}

// Move plays the given move, usually an opponent's, onto the current board.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	e.haltSearchIfActiveLocked(ctx)

	if !e.b.PushMove(candidate) {
		return fmt.Errorf("illegal move: %v", candidate)
	}

	logw.Infof(ctx, "Move %v: %v", candidate, e.b)
	return nil
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltSearchIfActiveLocked(ctx)

	m, ok := e.b.PopMove()
	if !ok {
		return fmt.Errorf("no move to take back")
	}

	logw.Infof(ctx, "Takeback %v", m)
	return nil
}

// Analyze launches a search of the current position under limits, reporting
// every completed iteration to report.
func (e *Engine) Analyze(ctx context.Context, limits search.Limits, report func(search.PV)) (*search.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if limits.Depth == 0 && e.opts.Depth > 0 {
		limits.Depth = int(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, limits=%+v", e.b, limits)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	e.table.NewGeneration()

	pool := &search.Pool{Table: e.table, Eval: eval.Material{}, Threads: int(e.opts.Threads)}
	handle := pool.Launch(ctx, e.b.Fork().Position(), limits, report)
	e.active = handle
	return handle, nil
}

// Halt halts the active search and returns its principal variation, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActiveLocked(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActiveLocked(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search halted: %v", pv)

		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}

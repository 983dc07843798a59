package search

import (
	"context"

	"github.com/loopback7/heptana/pkg/board"
	"github.com/loopback7/heptana/pkg/eval"
	"github.com/loopback7/heptana/pkg/tt"
	"go.uber.org/atomic"
)

type stackEntry struct {
	eval eval.Score
	pv   []board.Move
}

// thread is one search worker's state: its own cloned Position so it can
// Make/Unmake independently of every other worker, a shared table, and the
// per-ply bookkeeping iterative deepening/alpha-beta need. The abort signal
// itself travels through the context passed into every call, cancelled once
// for the whole tree rather than polled through a field here.
type thread struct {
	index int // 0 is the main thread; only it reports PVs and samples the clock

	pos   *board.Position
	table *tt.Table
	eval  eval.Evaluator

	history  historyTable
	stack    [maxDepth + 4]stackEntry
	nodes    uint64         // this thread's own count; only total is reported or checked
	total    *atomic.Uint64 // shared across the pool, what gets reported
	seldepth int

	doPruning bool
}

func newThread(index int, pos *board.Position, table *tt.Table, evaluator eval.Evaluator, total *atomic.Uint64) *thread {
	return &thread{
		index: index,
		pos:   pos,
		table: table,
		eval:  evaluator,
		total: total,
	}
}

func (th *thread) evaluate(ctx context.Context) eval.Score {
	return th.eval.Evaluate(ctx, th.pos)
}

package search

import (
	"context"
	"sync"
	"time"

	"github.com/loopback7/heptana/pkg/board"
	"github.com/loopback7/heptana/pkg/eval"
	"github.com/loopback7/heptana/pkg/tt"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"go.uber.org/atomic"
)

// Pool runs iterative deepening across Threads worker goroutines sharing one
// Table. Every worker searches the same position independently and in a
// differently-ordered move sequence (lazy SMP): there is no split-point
// work-stealing, so the workers converge purely through entries they leave
// each other in the shared table.
type Pool struct {
	Table   *tt.Table
	Eval    eval.Evaluator
	Threads int
}

// Handle controls one in-flight search launched by Launch.
type Handle struct {
	init, quit iox.AsyncCloser
	done       chan struct{}

	mu sync.Mutex
	pv PV
}

// PV returns the most recently completed iteration's principal variation.
func (h *Handle) PV() PV {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}

// Halt stops every worker and returns the final reported PV. Safe to call
// more than once or concurrently with the search completing on its own.
func (h *Handle) Halt() PV {
	<-h.init.Closed()
	h.quit.Close()
	<-h.done
	return h.PV()
}

// Launch starts Threads workers searching pos under limits. report, if
// non-nil, is called on the main thread (thread 0) after each completed
// iteration. The returned Handle's Halt stops every worker early; otherwise
// the search stops on its own once Limits is exhausted.
func (p *Pool) Launch(ctx context.Context, pos *board.Position, limits Limits, report func(PV)) *Handle {
	h := &Handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
		done: make(chan struct{}),
	}

	threads := p.Threads
	if threads < 1 {
		threads = 1
	}

	tc := newTimeControl(limits)
	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())

	var total atomic.Uint64

	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		th := newThread(i, pos.Clone(), p.Table, p.Eval, &total)
		go func() {
			defer wg.Done()

			rep := func(PV) {}
			if th.index == 0 {
				rep = func(pv PV) {
					h.mu.Lock()
					h.pv = pv
					h.mu.Unlock()
					h.init.Close()
					if report != nil {
						report(pv)
					}
				}
			}
			th.iterativeDeepening(wctx, limits, tc, rep)
		}()
	}

	if limits.timed() {
		go func() {
			select {
			case <-time.After(tc.max):
				h.quit.Close()
			case <-h.quit.Closed():
			}
		}()
	}

	go func() {
		wg.Wait()
		cancel()
		h.init.Close() // unblock a concurrent Halt even if no iteration ever reported
		h.quit.Close()
		close(h.done)
	}()

	return h
}

package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/loopback7/heptana/pkg/board/fen"
	"github.com/loopback7/heptana/pkg/engine"
	"github.com/loopback7/heptana/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(context.Background(), "heptana", "test", engine.WithOptions(engine.Options{
		Depth: 4, Hash: 1, Threads: 1,
	}))
}

func TestNewStartsAtInitialPosition(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, fen.Initial, e.Position())
}

func TestReset(t *testing.T) {
	e := newEngine(t)

	custom := "7/7/7/7/7/7/xo5 x 0 1"
	require.NoError(t, e.Reset(context.Background(), custom))
	assert.Equal(t, custom, e.Position())

	require.Error(t, e.Reset(context.Background(), "not a fen"))
}

func TestMoveAndTakeBack(t *testing.T) {
	e := newEngine(t)

	// g1 is x in the initial position; cloning to the adjacent g2 is legal.
	require.NoError(t, e.Move(context.Background(), "g1g2"))
	assert.NotEqual(t, fen.Initial, e.Position())

	require.Error(t, e.Move(context.Background(), "g1g2")) // g2 is now occupied

	require.NoError(t, e.TakeBack(context.Background()))
	assert.Equal(t, fen.Initial, e.Position())

	require.Error(t, e.TakeBack(context.Background()))
}

func TestMoveRejectsIllegalMove(t *testing.T) {
	e := newEngine(t)
	assert.Error(t, e.Move(context.Background(), "d4d5")) // not adjacent/reachable from any stone
}

func TestAnalyzeReportsAndHalts(t *testing.T) {
	e := newEngine(t)

	var last search.PV
	h, err := e.Analyze(context.Background(), search.Limits{Depth: 2}, func(pv search.PV) {
		last = pv
	})
	require.NoError(t, err)

	pv := h.Halt()
	assert.NotEmpty(t, pv.Moves)
	assert.Equal(t, pv.Moves, last.Moves)

	_, err = e.Halt(context.Background())
	assert.NoError(t, err) // the engine tracks its search until it halts it itself
}

func TestAnalyzeRejectsConcurrentSearch(t *testing.T) {
	e := newEngine(t)

	h, err := e.Analyze(context.Background(), search.Limits{Infinite: true}, nil)
	require.NoError(t, err)

	_, err = e.Analyze(context.Background(), search.Limits{Depth: 1}, nil)
	assert.Error(t, err)

	h.Halt()
}

func TestResetHaltsActiveSearch(t *testing.T) {
	e := newEngine(t)

	_, err := e.Analyze(context.Background(), search.Limits{Infinite: true}, nil)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, e.Reset(context.Background(), fen.Initial))

	_, err = e.Halt(context.Background())
	assert.Error(t, err) // Reset already halted it
}

func TestSetHashAndThreads(t *testing.T) {
	e := newEngine(t)

	e.SetHash(context.Background(), 2)
	e.SetThreads(2)
	e.SetDepth(6)

	opts := e.Options()
	assert.EqualValues(t, 2, opts.Hash)
	assert.EqualValues(t, 2, opts.Threads)
	assert.EqualValues(t, 6, opts.Depth)
}

package tt_test

import (
	"testing"

	"github.com/loopback7/heptana/pkg/board"
	"github.com/loopback7/heptana/pkg/eval"
	"github.com/loopback7/heptana/pkg/tt"
	"github.com/stretchr/testify/assert"
)

func TestSizeRoundsDownToPowerOfTwo(t *testing.T) {
	a := tt.New(0x10000)
	b := tt.New(0x1ff00)
	assert.Equal(t, a.Size(), b.Size())
}

func TestProbeMiss(t *testing.T) {
	table := tt.New(1 << 20)
	_, ok := table.Probe(board.ZobristHash(12345), 0)
	assert.False(t, ok)
}

func TestStoreAndProbe(t *testing.T) {
	table := tt.New(1 << 20)
	hash := board.ZobristHash(98765)
	move := board.Move{From: board.A1, To: board.B2, Single: true}

	table.Store(hash, tt.Exact, 4, 0, eval.Score(120), move)

	e, ok := table.Probe(hash, 0)
	assert.True(t, ok)
	assert.Equal(t, tt.Exact, e.Bound)
	assert.Equal(t, 4, e.Depth)
	assert.Equal(t, eval.Score(120), e.Score)
	assert.True(t, e.Move.Equals(move))
}

func TestStoreOverwritesUnconditionally(t *testing.T) {
	table := tt.New(1 << 20)
	hash := board.ZobristHash(555)
	move := board.Move{From: board.A1, To: board.B2, Single: true}

	table.Store(hash, tt.Exact, 8, 0, eval.Score(10), move)
	table.Store(hash, tt.Lower, 3, 0, eval.Score(20), move)

	e, ok := table.Probe(hash, 0)
	assert.True(t, ok)
	assert.Equal(t, 3, e.Depth)
	assert.Equal(t, eval.Score(20), e.Score)
}

func TestStoreAcrossGenerationsOverwrites(t *testing.T) {
	table := tt.New(1 << 20)
	hash := board.ZobristHash(555)
	move := board.Move{From: board.A1, To: board.B2, Single: true}

	table.Store(hash, tt.Exact, 8, 0, eval.Score(10), move)
	table.NewGeneration()
	table.Store(hash, tt.Lower, 1, 0, eval.Score(20), move)

	e, ok := table.Probe(hash, 0)
	assert.True(t, ok)
	assert.Equal(t, 1, e.Depth)
}

func TestStorePreservesMoveAcrossNullStore(t *testing.T) {
	table := tt.New(1 << 20)
	hash := board.ZobristHash(777)
	move := board.Move{From: board.A1, To: board.B2, Single: true}

	table.Store(hash, tt.Exact, 6, 0, eval.Score(5), move)
	table.Store(hash, tt.Exact, 1, 0, eval.Score(5), board.NullMove)

	e, ok := table.Probe(hash, 0)
	assert.True(t, ok)
	assert.True(t, e.Move.Equals(move))
}

func TestClear(t *testing.T) {
	table := tt.New(1 << 20)
	hash := board.ZobristHash(1)
	table.Store(hash, tt.Exact, 1, 0, eval.Score(1), board.Move{Single: true})
	table.Clear()
	_, ok := table.Probe(hash, 0)
	assert.False(t, ok)
}

func TestMateScoreAdjustedAcrossPlies(t *testing.T) {
	table := tt.New(1 << 20)
	hash := board.ZobristHash(42)

	// A mate found 2 plies deep, stored at ply 5, should read back as a mate
	// 2 plies deep again when probed at the same ply.
	table.Store(hash, tt.Exact, 10, 5, eval.Mate-2, board.Move{Single: true})

	e, ok := table.Probe(hash, 5)
	assert.True(t, ok)
	assert.Equal(t, eval.Mate-2, e.Score)
}

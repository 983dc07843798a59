package board_test

import (
	"testing"

	"github.com/loopback7/heptana/pkg/board"
	"github.com/loopback7/heptana/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoard(t *testing.T, f string) *board.Board {
	t.Helper()
	zt := board.NewZobristTable(0)
	pos, _, _, fullmoves, err := fen.Decode(zt, f)
	require.NoError(t, err)
	return board.NewBoard(zt, pos, fullmoves)
}

func TestPushPopMoveRoundTrip(t *testing.T) {
	b := newBoard(t, fen.Initial)

	moves := b.Position().LegalMoves(b.Turn())
	require.NotEmpty(t, moves)

	before := b.Hash()
	require.True(t, b.PushMove(moves[0]))
	assert.Equal(t, board.O, b.Turn())

	m, ok := b.PopMove()
	require.True(t, ok)
	assert.True(t, m.Equals(moves[0]))
	assert.Equal(t, board.X, b.Turn())
	assert.Equal(t, before, b.Hash())
}

func TestIllegalMoveRejected(t *testing.T) {
	b := newBoard(t, fen.Initial)
	assert.False(t, b.PushMove(board.Move{From: board.A1, To: board.D4}))
}

func TestNoStonesLeftIsTerminal(t *testing.T) {
	b := newBoard(t, "7/7/7/7/7/7/o5x x 0 1")
	assert.Equal(t, board.Undecided, b.Result().Outcome)

	// x has only one stone, o has only one stone; clone x adjacent to o's
	// single stone to flip it and eliminate o entirely.
	b2 := newBoard(t, "7/7/7/7/7/7/xo5 x 0 1")
	require.True(t, b2.PushMove(board.Move{To: board.A2, Single: true}))
	assert.Equal(t, board.XWins, b2.Result().Outcome)
	assert.Equal(t, board.NoStonesLeft, b2.Result().Reason)
}

func TestForkIsIndependent(t *testing.T) {
	b := newBoard(t, fen.Initial)
	fork := b.Fork()

	moves := b.Position().LegalMoves(b.Turn())
	require.True(t, fork.PushMove(moves[0]))

	assert.Equal(t, board.X, b.Turn())
	assert.Equal(t, board.O, fork.Turn())
}

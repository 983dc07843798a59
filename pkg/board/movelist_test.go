package board_test

import (
	"testing"

	"github.com/loopback7/heptana/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveListOrdersByPriority(t *testing.T) {
	moves := []board.Move{
		{From: board.A1, To: board.A2, Single: true},
		{From: board.A1, To: board.A3},
		{From: board.B1, To: board.B2, Single: true},
	}
	priority := func(m board.Move) board.MovePriority {
		switch {
		case m.To == board.A3:
			return 10
		case m.To == board.B2:
			return 5
		default:
			return 0
		}
	}

	ml := board.NewMoveList(moves, priority)
	require.Equal(t, 3, ml.Size())

	first, ok := ml.Next()
	require.True(t, ok)
	assert.Equal(t, board.A3, first.To)

	second, ok := ml.Next()
	require.True(t, ok)
	assert.Equal(t, board.B2, second.To)

	third, ok := ml.Next()
	require.True(t, ok)
	assert.Equal(t, board.A2, third.To)

	assert.Equal(t, 0, ml.Size())
	_, ok = ml.Next()
	assert.False(t, ok)
}

func TestMoveListPreservesOrderOnTies(t *testing.T) {
	moves := []board.Move{
		{From: board.A1, To: board.A2, Single: true},
		{From: board.B1, To: board.B2, Single: true},
		{From: board.C1, To: board.C2, Single: true},
	}
	zero := func(board.Move) board.MovePriority { return 0 }

	ml := board.NewMoveList(moves, zero)
	for _, want := range moves {
		got, ok := ml.Next()
		require.True(t, ok)
		assert.Equal(t, want.To, got.To)
	}
}

func TestFirstPromotesGivenMoveAheadOfHigherPriority(t *testing.T) {
	preferred := board.Move{From: board.A1, To: board.A2, Single: true}
	other := board.Move{From: board.B1, To: board.B2, Single: true}
	always := func(board.Move) board.MovePriority { return 100 }

	fn := board.First(preferred, always)
	assert.Greater(t, int32(fn(preferred)), int32(fn(other)))
}

func TestSortByPriorityStable(t *testing.T) {
	moves := []board.Move{
		{From: board.A1, To: board.A2, Single: true},
		{From: board.B1, To: board.A3},
		{From: board.C1, To: board.B2, Single: true},
	}
	priority := func(m board.Move) board.MovePriority {
		if m.To == board.A3 {
			return 1
		}
		return 0
	}

	board.SortByPriority(moves, priority)
	assert.Equal(t, board.A3, moves[0].To)
	assert.Equal(t, board.A2, moves[1].To)
	assert.Equal(t, board.B2, moves[2].To)
}

func TestEmptyMoveList(t *testing.T) {
	ml := board.NewMoveList(nil, func(board.Move) board.MovePriority { return 0 })
	assert.Equal(t, 0, ml.Size())
	assert.Equal(t, "[size=0]", ml.String())
	_, ok := ml.Next()
	assert.False(t, ok)
}

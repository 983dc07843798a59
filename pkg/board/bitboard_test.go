package board_test

import (
	"testing"

	"github.com/loopback7/heptana/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestBoardMaskHas49Squares(t *testing.T) {
	assert.Equal(t, 49, board.BoardMask.PopCount())
}

func TestSingleMoveboardCorner(t *testing.T) {
	// a1's clone destinations are its orthogonal/diagonal neighbors on the 7x7 board.
	bb := board.SingleMoveboard(board.A1)
	assert.Equal(t, 3, bb.PopCount())
	assert.True(t, bb.IsSet(board.B1))
	assert.True(t, bb.IsSet(board.A2))
	assert.True(t, bb.IsSet(board.B2))
}

func TestDoubleMoveboardCorner(t *testing.T) {
	bb := board.DoubleMoveboard(board.A1)
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		if bb.IsSet(sq) {
			assert.True(t, sq.IsValid())
		}
	}
	assert.True(t, bb.IsSet(board.C1))
	assert.True(t, bb.IsSet(board.A3))
	assert.True(t, bb.IsSet(board.C3))
	assert.False(t, bb.IsSet(board.B1)) // distance 1, not 2
}

func TestPaddingNeverSet(t *testing.T) {
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		assert.False(t, board.SingleMoveboard(sq)&^board.BoardMask != 0)
		assert.False(t, board.DoubleMoveboard(sq)&^board.BoardMask != 0)
	}
}

func TestPopLSB(t *testing.T) {
	bb := board.BitMask(board.A1) | board.BitMask(board.C3)
	sq, rest := bb.PopLSB()
	assert.Equal(t, board.A1, sq)
	assert.Equal(t, 1, rest.PopCount())
}

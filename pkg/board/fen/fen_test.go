package fen_test

import (
	"testing"

	"github.com/loopback7/heptana/pkg/board"
	"github.com/loopback7/heptana/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	zt := board.NewZobristTable(0)

	tests := []string{
		fen.Initial,
		"x5o/7/7/7/7/7/o5x o 0 1",
		"xxxxxxx/xxxxxxx/xxxxxxx/xxxooxx/ooooooo/ooooooo/ooooooo x 12 7",
		"7/7/7/7/7/7/7 x 0 1",
	}

	for _, tt := range tests {
		pos, turn, rule50, fullmoves, err := fen.Decode(zt, tt)
		require.NoError(t, err)
		assert.Equal(t, tt, fen.Encode(pos, fullmoves))
		_ = turn
		_ = rule50
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	zt := board.NewZobristTable(0)

	tests := []string{
		"x5o/7/7/7/7/7/o5x x 0",           // missing field
		"x5o/7/7/7/7/7 x 0 1",             // wrong rank count
		"x4zo/7/7/7/7/7/o5x x 0 1",        // invalid character
		"x8/7/7/7/7/7/o5x x 0 1",          // rank too long
		"x5o/7/7/7/7/7/o5x w 0 1",         // invalid side to move
	}

	for _, tt := range tests {
		_, _, _, _, err := fen.Decode(zt, tt)
		assert.Error(t, err, tt)
	}
}

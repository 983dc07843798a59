// Package fen contains utilities for reading and writing 7x7 Ataxx positions
// in FEN notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/loopback7/heptana/pkg/board"
)

const (
	// Initial is the starting position: each side owns the two corners on its
	// own diagonal.
	Initial = "x5o/7/7/7/7/7/o5x x 0 1"
)

// Decode returns a new position and game status from a FEN description. A FEN
// record has four space-separated fields: piece placement (from rank 7 down to
// rank 1, files a through g), side to move ("x" or "o"), the no-progress
// (rule50) counter and the full-move number.
//
// Example: "x5o/7/7/7/7/7/o5x x 0 1"
func Decode(zt *board.ZobristTable, fen string) (*board.Position, board.Color, int, int, error) {
	parts := strings.Split(strings.TrimSpace(fen), " ")
	if len(parts) != 4 {
		return nil, 0, 0, 0, fmt.Errorf("invalid number of sections in FEN: %q", fen)
	}

	var color [board.NumColors]board.Bitboard

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != int(board.BoardRanks) {
		return nil, 0, 0, 0, fmt.Errorf("invalid number of ranks in FEN: %q", fen)
	}

	for i, row := range ranks {
		r := board.Rank(int(board.BoardRanks) - 1 - i)
		f := board.File(0)

		for _, ch := range row {
			switch {
			case unicode.IsDigit(ch):
				f += board.File(ch - '0')
			case ch == 'x' || ch == 'X':
				color[board.X] |= board.BitMask(board.NewSquare(f, r))
				f++
			case ch == 'o' || ch == 'O':
				color[board.O] |= board.BitMask(board.NewSquare(f, r))
				f++
			default:
				return nil, 0, 0, 0, fmt.Errorf("invalid character %q in FEN: %q", ch, fen)
			}
		}
		if f != board.BoardFiles {
			return nil, 0, 0, 0, fmt.Errorf("invalid number of squares in rank %q of FEN: %q", row, fen)
		}
	}

	turn, ok := parseColor(parts[1])
	if !ok {
		return nil, 0, 0, 0, fmt.Errorf("invalid side to move in FEN: %q", fen)
	}

	rule50, err := strconv.Atoi(parts[2])
	if err != nil || rule50 < 0 {
		return nil, 0, 0, 0, fmt.Errorf("invalid rule50 counter in FEN: %q", fen)
	}

	fullmoves, err := strconv.Atoi(parts[3])
	if err != nil || fullmoves < 0 {
		return nil, 0, 0, 0, fmt.Errorf("invalid full move number in FEN: %q", fen)
	}

	pos := board.NewPosition(zt, color, turn, rule50)
	return pos, turn, rule50, fullmoves, nil
}

// Encode encodes the position and game data in FEN notation.
func Encode(pos *board.Position, fullmoves int) string {
	var sb strings.Builder
	for i := 0; i < int(board.BoardRanks); i++ {
		r := board.Rank(int(board.BoardRanks) - 1 - i)
		blanks := 0
		for f := board.File(0); f < board.BoardFiles; f++ {
			c, ok := pos.Square(board.NewSquare(f, r))
			if !ok {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteString(c.String())
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if i < int(board.BoardRanks)-1 {
			sb.WriteRune('/')
		}
	}

	return fmt.Sprintf("%v %v %v %v", sb.String(), pos.Turn(), pos.NoProgress(), fullmoves)
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "x", "X":
		return board.X, true
	case "o", "O":
		return board.O, true
	default:
		return 0, false
	}
}

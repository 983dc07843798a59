package search

import "github.com/loopback7/heptana/pkg/board"

// historyTable accumulates a success score per (color, from, to), fed back
// into move ordering so a move that raised alpha at one node is tried
// early at sibling nodes. Clone moves all share from==0 in their encoding (the
// originating stone is not recorded, any adjacent stone could have cloned),
// so history for clones is effectively keyed on the destination square alone
// -- the same granularity the reference engine's history table has.
type historyTable [board.NumColors][board.NumSquares][board.NumSquares]int32

func (h *historyTable) add(c board.Color, m board.Move, bonus int32) {
	h[c][m.From][m.To] += bonus
}

func (h *historyTable) priority(c board.Color) board.MovePriorityFn {
	return func(m board.Move) board.MovePriority {
		return board.MovePriority(h[c][m.From][m.To])
	}
}

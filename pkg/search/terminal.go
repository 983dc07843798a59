package search

import (
	"github.com/loopback7/heptana/pkg/board"
	"github.com/loopback7/heptana/pkg/eval"
)

// terminal scores a position that ends the game outright at this node, mate
// distance adjusted to ply so shorter forced wins sort ahead of longer ones.
// A full board or mutual-pass exhaustion is a certain, unconditional result
// the same way a stone-elimination mate is, so it is scored at the mate-band
// boundary rather than as an ordinary material evaluation.
func terminal(pos *board.Position, ply int) (eval.Score, bool) {
	stm, opp := pos.Count(pos.Turn()), pos.Count(pos.Turn().Opponent())

	switch {
	case stm == 0:
		return -eval.Mate + eval.Score(ply), true
	case opp == 0:
		return eval.Mate - eval.Score(ply), true
	case pos.IsFull() || pos.LastTwoPassed():
		return stoneCountScore(stm, opp), true
	case pos.NoProgress() >= 100 || pos.IsRepetition():
		return 0, true
	default:
		return 0, false
	}
}

func stoneCountScore(stm, opp int) eval.Score {
	diff := stm - opp
	switch {
	case diff > 0:
		return eval.MateInMax
	case diff < 0:
		return -eval.MateInMax
	default:
		return 0
	}
}

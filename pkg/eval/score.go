package eval

import (
	"fmt"

	"github.com/loopback7/heptana/pkg/board"
)

// Score is a signed centipawn-ish position or move score, positive favors the
// side to move. Mate scores are encoded close to the boundary of the range so
// ordinary evaluations never collide with them.
type Score int32

const (
	// Mate is the score of delivering checkmate at ply 0. Every ply deeper
	// reduces a mate score by 1, so shorter mates sort ahead of longer ones.
	Mate Score = 31000
	// MateInMax is the threshold above (below, negated) which a score is
	// considered "found a forced win/loss" rather than a material evaluation.
	MateInMax = Mate - 999

	Infinite    Score = Mate + 1
	NegInfinite Score = -Infinite
	NoScore     Score = Mate + 2
)

// Tempo is the flat bonus given to the side to move.
const Tempo Score = 15

func (s Score) String() string {
	return fmt.Sprintf("%d", s)
}

// Unit returns the signed unit for the color: 1 for X and -1 for O.
func Unit(c board.Color) Score {
	if c == board.X {
		return 1
	}
	return -1
}

// Negate flips the score to the opponent's perspective, the way negamax passes
// scores up the recursion.
func (s Score) Negate() Score {
	return -s
}

// IsMate reports whether s represents a forced mate, for either side.
func (s Score) IsMate() bool {
	return s >= MateInMax || s <= -MateInMax
}

// MateDistance reports the distance to mate in plies, positive if the side to move is
// delivering it, negative if receiving it. Only meaningful if IsMate().
func (s Score) MateDistance() int {
	if s > 0 {
		return (int(Mate-s) + 1) / 2
	}
	return -((int(Mate+s) + 1) / 2)
}

// ToTT adjusts a mate score from "distance to mate from the root" (used
// throughout search) to "distance to mate from this node" (stable across TT
// entries reached at different plies). Ordinary scores pass through unchanged.
func ToTT(s Score, ply int) Score {
	switch {
	case s >= MateInMax:
		return s + Score(ply)
	case s <= -MateInMax:
		return s - Score(ply)
	default:
		return s
	}
}

// FromTT reverses ToTT when reading a TT entry back in at the current ply.
func FromTT(s Score, ply int) Score {
	if s == NoScore {
		return NoScore
	}
	switch {
	case s >= MateInMax:
		return s - Score(ply)
	case s <= -MateInMax:
		return s + Score(ply)
	default:
		return s
	}
}

// Max returns the largest of the given scores.
func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

// Min returns the smallest of the given scores.
func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}

// Package eval contains position evaluation logic and utilities.
package eval

import (
	"context"

	"github.com/loopback7/heptana/pkg/board"
)

// Evaluator is a static position evaluator. There is no network or feature
// based eval; material count plus tempo is the only signal used.
type Evaluator interface {
	// Evaluate returns the position score from the perspective of the side
	// to move.
	Evaluate(ctx context.Context, pos *board.Position) Score
}

// Material is the material-count evaluator with a flat tempo bonus for the
// side to move.
type Material struct{}

func (Material) Evaluate(ctx context.Context, pos *board.Position) Score {
	stm := pos.Turn()

	diff := Score(pos.Count(board.X)-pos.Count(board.O)) * 200
	if stm != board.X {
		diff = -diff
	}
	return diff + Tempo
}

package search

import (
	"context"

	"github.com/loopback7/heptana/pkg/board"
	"github.com/loopback7/heptana/pkg/eval"
	"github.com/loopback7/heptana/pkg/tt"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// alphaBeta is fail-soft negamax over the thread's own Position, with
// transposition-table probing/storing, late-move reductions, a PVS cascade
// and history-heuristic move ordering. ply is the distance from the root of
// this iteration; depth is plies remaining to search.
func (th *thread) alphaBeta(ctx context.Context, alpha, beta eval.Score, depth, ply int, pvNode bool) eval.Score {
	if contextx.IsCancelled(ctx) {
		return 0
	}
	if err := th.pos.CheckInvariants(); err != nil {
		panic(err)
	}

	if score, ok := terminal(th.pos, ply); ok {
		return score
	}
	if ply > 0 {
		alpha = eval.Max(alpha, -eval.Mate+eval.Score(ply))
		beta = eval.Min(beta, eval.Mate-eval.Score(ply)-1)
		if alpha >= beta {
			return alpha
		}
	}

	if ply >= maxDepth-1 {
		return th.evaluate(ctx)
	}
	if depth <= 0 {
		return th.evaluate(ctx)
	}

	th.nodes++
	th.total.Inc()
	if ply > th.seldepth {
		th.seldepth = ply
	}

	hash := th.pos.Hash()
	var ttMove board.Move
	if e, ok := th.table.Probe(hash, ply); ok {
		ttMove = e.Move
		if !pvNode && e.Depth >= depth {
			switch e.Bound {
			case tt.Exact:
				return e.Score
			case tt.Lower:
				if e.Score >= beta {
					return e.Score
				}
			case tt.Upper:
				if e.Score <= alpha {
					return e.Score
				}
			}
		}
	}

	staticEval := th.evaluate(ctx)
	improving := ply >= 2 && staticEval > th.stack[ply-2].eval
	th.stack[ply].eval = staticEval
	th.stack[ply].pv = nil

	turn := th.pos.Turn()
	priority := th.history.priority(turn)
	if ttMove != (board.Move{}) {
		priority = board.First(ttMove, priority)
	}
	moves := board.NewMoveList(th.pos.LegalMoves(turn), priority)

	oldAlpha := alpha
	bestScore := eval.NegInfinite
	var bestMove board.Move
	moveCount := 0

	for {
		move, ok := moves.Next()
		if !ok {
			break
		}
		moveCount++

		th.pos.Make(move)
		newDepth := depth - 1

		var score eval.Score
		switch {
		case moveCount == 1:
			score = -th.alphaBeta(ctx, -beta, -alpha, newDepth, ply+1, pvNode)
		default:
			reduced := newDepth
			pvBonus := 0
			if pvNode {
				pvBonus = 1
			}
			if depth > 2 && moveCount > 2+pvBonus && th.doPruning {
				r := reduction(depth, moveCount, pvNode, improving)
				reduced = clamp(newDepth-r, 1, newDepth)
			}

			score = -th.alphaBeta(ctx, -alpha-1, -alpha, reduced, ply+1, false)
			if score > alpha && reduced < newDepth {
				score = -th.alphaBeta(ctx, -alpha-1, -alpha, newDepth, ply+1, false)
			}
			if score > alpha && score < beta {
				score = -th.alphaBeta(ctx, -beta, -alpha, newDepth, ply+1, true)
			}
		}
		th.pos.Unmake()

		if contextx.IsCancelled(ctx) {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
				th.stack[ply].pv = append([]board.Move{move}, th.stack[ply+1].pv...)

				if depth > 1 {
					th.history.add(turn, move, int32(depth*depth))
				}

				if score >= beta {
					break
				}
			}
		}
	}

	bound := tt.Exact
	switch {
	case bestScore >= beta:
		bound = tt.Lower
	case alpha != oldAlpha:
		bound = tt.Exact
	default:
		bound = tt.Upper
	}
	th.table.Store(hash, bound, depth, ply, bestScore, bestMove)

	return bestScore
}

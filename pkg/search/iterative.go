package search

import (
	"context"
	"time"

	"github.com/loopback7/heptana/pkg/board"
	"github.com/loopback7/heptana/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// aspirationWindow re-searches rootDepth with a window centered on the
// previous iteration's score, widening on fail-low/fail-high until the score
// lands inside the window. A fail-low resets depth back to rootDepth; a
// fail-high decrements it, unless the score is already near a forced mate.
// doPruning is on only once rootDepth exceeds 4, or the lower limit a short
// time budget gives, so shallow iterations never reduce.
func (th *thread) aspirationWindow(ctx context.Context, rootDepth int, prevScore eval.Score, pruningLimit int) eval.Score {
	limit := 4
	if pruningLimit > 0 && pruningLimit < limit {
		limit = pruningLimit
	}
	th.doPruning = rootDepth > limit

	alpha, beta := eval.NegInfinite, eval.Infinite
	delta := eval.Score(16)
	if rootDepth > 6 {
		alpha = prevScore - 12
		beta = prevScore + 12
	}

	depth := rootDepth
	for {
		score := th.alphaBeta(ctx, alpha, beta, depth, 0, true)
		if contextx.IsCancelled(ctx) {
			return score
		}

		switch {
		case score <= alpha:
			beta = (alpha + beta) / 2
			alpha = eval.Max(score-delta, eval.NegInfinite)
			depth = rootDepth
		case score >= beta:
			beta = eval.Min(score+delta, eval.Infinite)
			if !score.IsMate() {
				depth--
			}
		default:
			return score
		}

		delta += delta * 2 / 3
		if alpha < -3500 {
			alpha = eval.NegInfinite
		}
		if beta > 3500 {
			beta = eval.Infinite
		}
	}
}

// iterativeDeepening repeatedly deepens the search, one ply at a time, until
// Limits or an abort signal stops it. Only the main thread (index 0) reports
// progress and samples the clock; helper threads search silently and exist
// only to populate the shared table with independently-ordered work.
func (th *thread) iterativeDeepening(ctx context.Context, limits Limits, tc timeControl, report func(PV)) board.Move {
	start := time.Now()
	pruningLimit := 4
	if limits.timed() {
		pruningLimit = int((tc.optimal + 250*time.Millisecond) / (250 * time.Millisecond))
	}

	maxD := maxDepth - 4
	if !limits.Infinite && limits.Depth > 0 && limits.Depth < maxD {
		maxD = limits.Depth
	}

	var best board.Move
	var score eval.Score
	uncertain := false

	for depth := 1; depth <= maxD; depth++ {
		if contextx.IsCancelled(ctx) {
			break
		}

		score = th.aspirationWindow(ctx, depth, score, pruningLimit)
		if contextx.IsCancelled(ctx) && depth > 1 {
			break
		}

		pv := th.stack[0].pv
		if len(pv) > 0 {
			uncertain = !pv[0].Equals(best)
			best = pv[0]
		}

		if th.index == 0 && report != nil {
			report(PV{
				Depth:    depth,
				SelDepth: th.seldepth,
				Score:    score,
				Nodes:    th.total.Load(),
				Time:     time.Since(start),
				Moves:    pv,
				Hashfull: th.table.Hashfull(),
			})
		}

		if limits.Nodes > 0 && th.total.Load() >= limits.Nodes {
			break
		}
		if th.index == 0 && limits.timed() {
			mult := time.Duration(1)
			if uncertain {
				mult = 2
			}
			if time.Since(start) > tc.optimal*mult {
				break
			}
		}
	}
	return best
}

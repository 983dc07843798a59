package search

import "time"

// timeControl computes the optimal and maximum usage for a search given its
// Limits. movetime mode simply budgets the requested time minus scheduling
// overhead; a clock-based time control divides the time remaining by the
// moves to go (30 when unknown), adds half the increment and caps the result
// at the time remaining minus overhead. Optimal and maximum usage are equal.
type timeControl struct {
	optimal, max time.Duration
}

const overhead = 5 * time.Millisecond

func newTimeControl(l Limits) timeControl {
	switch {
	case l.MoveTime > 0:
		u := l.MoveTime - overhead
		if u < 0 {
			u = 0
		}
		return timeControl{optimal: u, max: u}
	case l.TimeLeft > 0:
		movesToGo := l.MovesToGo
		if movesToGo <= 0 {
			movesToGo = 30
		}
		u := l.TimeLeft/time.Duration(movesToGo) + l.Increment/2
		if u > l.TimeLeft-overhead {
			u = l.TimeLeft - overhead
		}
		if u < 0 {
			u = 0
		}
		return timeControl{optimal: u, max: u}
	default:
		return timeControl{}
	}
}

// outOfTime reports whether maxUsage is spent, looking at the clock only on
// every 4096th node: checking the clock on every node would dominate the cost
// of cheap Ataxx nodes. The search does not call it; Pool.Launch stops a timed
// search with a timer at the maximum usage instead.
func outOfTime(nodes uint64, limited bool, elapsed, maxUsage time.Duration) bool {
	if !limited {
		return false
	}
	if nodes&4095 != 4095 {
		return false
	}
	return elapsed >= maxUsage
}

package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/loopback7/heptana/pkg/board"
	"github.com/loopback7/heptana/pkg/eval"
)

// PV is one completed iterative-deepening iteration's principal variation,
// reported to the protocol layer as an "info" line.
type PV struct {
	Depth    int
	SelDepth int
	Score    eval.Score
	Bound    Bound // 0 if exact
	Nodes    uint64
	Time     time.Duration
	Moves    []board.Move
	Hashfull int
}

// Nps returns nodes per second, 0 if Time is zero.
func (pv PV) Nps() uint64 {
	if pv.Time <= 0 {
		return 0
	}
	return uint64(float64(pv.Nodes) / pv.Time.Seconds())
}

func (pv PV) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "depth %d seldepth %d score %s", pv.Depth, pv.SelDepth, scoreString(pv.Score))
	switch pv.Bound {
	case LowerBound:
		sb.WriteString(" lowerbound")
	case UpperBound:
		sb.WriteString(" upperbound")
	}
	fmt.Fprintf(&sb, " time %d nodes %d nps %d hashfull %d", pv.Time.Milliseconds(), pv.Nodes, pv.Nps(), pv.Hashfull)
	if len(pv.Moves) > 0 {
		sb.WriteString(" pv")
		for _, m := range pv.Moves {
			sb.WriteString(" ")
			sb.WriteString(m.String())
		}
	}
	return sb.String()
}

func scoreString(s eval.Score) string {
	if s.IsMate() {
		return fmt.Sprintf("mate %d", s.MateDistance())
	}
	return fmt.Sprintf("cp %d", s)
}

// Bound mirrors tt.Bound without importing pkg/tt here, avoiding a cycle
// (pkg/tt does not need to know about PV reporting).
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

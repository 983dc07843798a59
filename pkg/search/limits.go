package search

import "time"

// Limits bounds one search: depth/node caps, or a time control translated by
// timectrl.go into a per-thread usage budget. A zero Limits means "search
// forever until Stop", mirroring the protocol's "go infinite".
type Limits struct {
	Depth     int           // 0 = no depth cap (up to maxDepth-4)
	Nodes     uint64        // 0 = no node cap
	MoveTime  time.Duration // exact time for this move, 0 = not set
	TimeLeft  time.Duration // clock remaining for the side to move, 0 = not set
	Increment time.Duration // per-move increment, 0 = not set
	MovesToGo int           // moves left to the next time control, 0 = unknown
	Infinite  bool          // ignore all time/depth bounds, search until Stop
}

// timed reports whether the limits impose any clock pressure at all.
func (l Limits) timed() bool {
	return !l.Infinite && (l.MoveTime > 0 || l.TimeLeft > 0)
}

// Package tt implements a lock-free, shared transposition table. Entries are
// packed into a single 64-bit data word per slot; the key word stored
// alongside is the zobrist hash XOR'd with that data word, so a reader can
// detect a torn write (one thread's store interleaved with another's) by
// recomputing the XOR and comparing against the probed hash, with no locks
// and no CAS loop.
package tt

import (
	"fmt"
	"math/bits"
	"sync/atomic"

	"github.com/loopback7/heptana/pkg/board"
	"github.com/loopback7/heptana/pkg/eval"
)

// Bound represents the bound of a possibly inexact search score.
type Bound uint8

const (
	Exact Bound = iota
	Lower
	Upper
)

func (b Bound) String() string {
	switch b {
	case Exact:
		return "exact"
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	default:
		return "?"
	}
}

// Entry is a search result keyed by zobrist hash, as handed back by Probe.
type Entry struct {
	Score eval.Score
	Move  board.Move
	Depth int
	Bound Bound
}

type slot struct {
	key  uint64
	data uint64
}

// Table is a transposition table shared across search worker goroutines.
type Table struct {
	slots []slot
	mask  uint64
	age   uint8
}

const slotSize = 16 // bytes: two uint64 words

// New allocates a table sized to the largest power of two of slots that fits
// within size bytes.
func New(size uint64) *Table {
	n := uint64(1)
	if size >= slotSize {
		n = uint64(1) << (63 - bits.LeadingZeros64(size/slotSize))
	}
	return &Table{
		slots: make([]slot, n),
		mask:  n - 1,
	}
}

// Size returns the table capacity in bytes.
func (t *Table) Size() uint64 {
	return uint64(len(t.slots)) * slotSize
}

// Clear empties every slot.
func (t *Table) Clear() {
	for i := range t.slots {
		atomic.StoreUint64(&t.slots[i].data, 0)
		atomic.StoreUint64(&t.slots[i].key, 0)
	}
	t.age = 0
}

// NewGeneration marks the start of a new search without discarding entries.
// Store does not consult the generation; Hashfull counts only entries written
// in the current one.
func (t *Table) NewGeneration() {
	t.age++
}

// Probe looks up the entry for hash, mate scores already adjusted back to
// distance-from-root using FromTT.
func (t *Table) Probe(hash board.ZobristHash, ply int) (Entry, bool) {
	idx := uint64(hash) & t.mask
	s := &t.slots[idx]

	data := atomic.LoadUint64(&s.data)
	key := atomic.LoadUint64(&s.key)
	if key^data != uint64(hash) {
		return Entry{}, false
	}

	e := unpack(data)
	e.Score = eval.FromTT(e.Score, ply)
	return e, true
}

// Store writes an entry unconditionally, adjusting a mate score with ToTT
// (distance-from-this-node) before packing.
func (t *Table) Store(hash board.ZobristHash, bound Bound, depth int, ply int, score eval.Score, move board.Move) {
	idx := uint64(hash) & t.mask
	s := &t.slots[idx]

	if move.IsNull() {
		if old, ok := t.Probe(hash, 0); ok {
			move = old.Move // preserve a known best move across re-searches
		}
	}

	data := pack(entryFields{
		move:  move,
		score: eval.ToTT(score, ply),
		depth: depth,
		bound: bound,
		age:   t.age,
	})
	key := uint64(hash) ^ data

	atomic.StoreUint64(&s.data, data)
	atomic.StoreUint64(&s.key, key)
}

// Hashfull estimates occupancy in permille, sampling the first 1000 slots.
func (t *Table) Hashfull() int {
	n := len(t.slots)
	if n > 1000 {
		n = 1000
	}
	if n == 0 {
		return 0
	}
	used := 0
	for i := 0; i < n; i++ {
		data := atomic.LoadUint64(&t.slots[i].data)
		key := atomic.LoadUint64(&t.slots[i].key)
		if data != 0 || key != 0 {
			if packedAge(data) == t.age {
				used++
			}
		}
	}
	return used * 1000 / n
}

func (t *Table) String() string {
	return fmt.Sprintf("TT[%vMB @ %v%%]", t.Size()>>20, t.Hashfull()/10)
}

type entryFields struct {
	move  board.Move
	score eval.Score
	depth int
	bound Bound
	age   uint8
}

// pack lays out, from the low bit: move(14) score(16) depth(8) bound(2) age(8).
func pack(f entryFields) uint64 {
	var mv uint64
	if f.move.Null {
		mv = 1
	}
	if f.move.Single {
		mv |= 1 << 1
	}
	mv |= uint64(f.move.From) << 2
	mv |= uint64(f.move.To) << 8

	var v uint64
	v |= mv & 0x3FFF
	v |= (uint64(uint16(f.score)) & 0xFFFF) << 14
	v |= (uint64(f.depth) & 0xFF) << 30
	v |= (uint64(f.bound) & 0x3) << 38
	v |= (uint64(f.age) & 0xFF) << 40
	return v
}

func unpack(v uint64) Entry {
	mv := v & 0x3FFF
	move := board.Move{
		Null:   mv&1 != 0,
		Single: mv&(1<<1) != 0,
		From:   board.Square((mv >> 2) & 0x3F),
		To:     board.Square((mv >> 8) & 0x3F),
	}
	score := eval.Score(int16(uint16((v >> 14) & 0xFFFF)))
	depth := int((v >> 30) & 0xFF)
	bound := Bound((v >> 38) & 0x3)
	return Entry{Score: score, Move: move, Depth: depth, Bound: bound}
}

func packedAge(v uint64) uint8 {
	return uint8((v >> 40) & 0xFF)
}

package board

import "fmt"

// undo holds the information needed to reverse one ply of Make, restoring the
// exact prior key rather than un-xoring it incrementally.
type undo struct {
	key      ZobristHash
	captures Bitboard
	move     Move
	rule50   int
}

// Position is the mutable Ataxx board state: stone bitboards per color, side to
// move, the no-progress (rule50) counter and a zobrist key, plus the undo
// history needed to Unmake moves played on it. It is the unit of work for both
// the game-level Board wrapper and the search hot loop: Make/Unmake mutate it
// in place so neither path allocates a new Position per ply.
type Position struct {
	color  [NumColors]Bitboard
	stm    Color
	rule50 int
	ply    int

	key     ZobristHash
	history []undo

	zt *ZobristTable
}

// NewPosition constructs a position from stone bitboards already masked to
// BoardMask, the side to move and the no-progress counter.
func NewPosition(zt *ZobristTable, color [NumColors]Bitboard, stm Color, rule50 int) *Position {
	p := &Position{
		color:  color,
		stm:    stm,
		rule50: rule50,
		zt:     zt,
	}
	p.key = zt.Hash(p, stm)
	return p
}

// Clone returns an independent copy that can be made/unmade without affecting p.
func (p *Position) Clone() *Position {
	cp := *p
	cp.history = append([]undo(nil), p.history...)
	return &cp
}

func (p *Position) Turn() Color {
	return p.stm
}

func (p *Position) Hash() ZobristHash {
	return p.key
}

func (p *Position) NoProgress() int {
	return p.rule50
}

func (p *Position) Ply() int {
	return p.ply
}

// LastTwoPassed reports whether the last two plies played were both forced
// passes, meaning neither side had a move: the game is over by exhaustion.
func (p *Position) LastTwoPassed() bool {
	n := len(p.history)
	if n < 2 {
		return false
	}
	return p.history[n-1].move.Null && p.history[n-2].move.Null
}

// Square returns the occupying color, if any.
func (p *Position) Square(sq Square) (Color, bool) {
	switch {
	case p.color[X].IsSet(sq):
		return X, true
	case p.color[O].IsSet(sq):
		return O, true
	default:
		return 0, false
	}
}

// Stones returns the bitboard of stones of the given color.
func (p *Position) Stones(c Color) Bitboard {
	return p.color[c]
}

// Count returns the number of stones of the given color.
func (p *Position) Count(c Color) int {
	return p.color[c].PopCount()
}

func (p *Position) Empty() Bitboard {
	return BoardMask &^ (p.color[X] | p.color[O])
}

func (p *Position) IsFull() bool {
	return (p.color[X] | p.color[O]) == BoardMask
}

// LegalMoves enumerates every legal move for color c: every single (clone) move
// from any of its stones to an adjacent empty square, and every double (jump)
// move from a stone to an empty square two rows/columns away. Ataxx has no
// concept of a move being pseudo-legal but unsafe (no checks, no pins), so
// generation and legality coincide. If c has stones but no move exists, the
// single-element NullMove list represents the forced pass.
func (p *Position) LegalMoves(c Color) []Move {
	empty := p.Empty()

	var moves []Move
	var singles Bitboard

	pieces := p.color[c]
	for pieces != 0 {
		var from Square
		from, pieces = pieces.PopLSB()

		singles |= SingleMoveboard(from) & empty

		doubles := DoubleMoveboard(from) & empty
		for doubles != 0 {
			var to Square
			to, doubles = doubles.PopLSB()
			moves = append(moves, Move{From: from, To: to})
		}
	}
	for singles != 0 {
		var to Square
		to, singles = singles.PopLSB()
		moves = append(moves, Move{To: to, Single: true})
	}

	if len(moves) == 0 && p.color[c] != 0 {
		moves = append(moves, NullMove)
	}
	return moves
}

// IsLegalMove validates a candidate move against the current side to move,
// e.g. one parsed from a UAI "position ... moves ..." command.
func (p *Position) IsLegalMove(m Move) bool {
	if m.Null {
		moves := p.LegalMoves(p.stm)
		return len(moves) == 1 && moves[0].Null
	}
	if !m.To.IsValid() || (p.color[X]|p.color[O]).IsSet(m.To) {
		return false
	}
	if m.Single {
		return SingleMoveboard(m.To)&p.color[p.stm] != 0
	}
	if !m.From.IsValid() || !p.color[p.stm].IsSet(m.From) {
		return false
	}
	return DoubleMoveboard(m.From).IsSet(m.To)
}

// Make plays m, updating stones, the zobrist key and the no-progress counter,
// and pushes an undo record for Unmake. m is assumed legal.
func (p *Position) Make(m Move) {
	mover := p.stm
	h := undo{key: p.key, rule50: p.rule50, move: m}

	p.rule50++
	if m.Null {
		p.key ^= p.zt.side
	} else {
		if m.Single {
			p.color[mover] |= BitMask(m.To)
			p.rule50 = 0
		} else {
			p.color[mover] ^= BitMask(m.From) | BitMask(m.To)
		}

		captures := SingleMoveboard(m.To) & p.color[mover.Opponent()]
		if captures != 0 {
			p.color[mover] |= captures
			p.color[mover.Opponent()] &^= captures
		}
		h.captures = captures

		p.key = p.zt.Move(h.key, mover, m, captures)
	}

	p.history = append(p.history, h)
	p.ply++
	p.stm = mover.Opponent()
}

// Unmake reverses the last Make. It must be paired one-for-one with Make calls,
// LIFO, exactly like the underlying history slice.
func (p *Position) Unmake() {
	n := len(p.history) - 1
	h := p.history[n]
	p.history = p.history[:n]

	mover := p.stm.Opponent()
	p.stm = mover

	if !h.move.Null {
		if h.captures != 0 {
			p.color[mover] &^= h.captures
			p.color[mover.Opponent()] |= h.captures
		}
		if h.move.Single {
			p.color[mover] &^= BitMask(h.move.To)
		} else {
			p.color[mover] ^= BitMask(h.move.From) | BitMask(h.move.To)
		}
	}

	p.key = h.key
	p.rule50 = h.rule50
	p.ply--
}

// IsRepetition reports whether the current position (key and side to move) has
// occurred at least twice before in the no-progress window, i.e. this would be
// the 3rd occurrence. Only positions with the same side to move can repeat, so
// history is walked backward two plies at a time.
func (p *Position) IsRepetition() bool {
	n := len(p.history)
	limit := p.rule50
	if limit > n {
		limit = n
	}

	count := 0
	for i := 2; i <= limit; i += 2 {
		if p.history[n-i].key == p.key {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

func (p *Position) String() string {
	return fmt.Sprintf("{x=%v, o=%v, stm=%v, rule50=%v, ply=%v, key=%x}", p.color[X].PopCount(), p.color[O].PopCount(), p.stm, p.rule50, p.ply, p.key)
}

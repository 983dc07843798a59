// Package board implements 7x7 Ataxx board representation: bitboards, move
// encoding and generation, zobrist hashing and make/unmake with history.
package board

import "fmt"

const noprogressPlyLimit = 100

// Board wraps a Position with game-level bookkeeping: the full-move counter and
// the adjudicated Result, if any. Search uses Position directly for speed;
// Board is the unit the engine facade and protocol drivers operate on.
type Board struct {
	zt        *ZobristTable
	fullmoves int
	result    Result
	pos       *Position
}

// NewBoard wraps pos, whose side to move is assumed to be X when fullmoves==1
// and no moves have been played yet (the usual fresh-game case), or whatever
// side the originating FEN recorded.
func NewBoard(zt *ZobristTable, pos *Position, fullmoves int) *Board {
	b := &Board{zt: zt, fullmoves: fullmoves, pos: pos}
	b.updateResult()
	return b
}

// Fork branches off an independent board sharing no mutable state, safe to
// Make/Unmake moves on concurrently with the original.
func (b *Board) Fork() *Board {
	return &Board{
		zt:        b.zt,
		fullmoves: b.fullmoves,
		result:    b.result,
		pos:       b.pos.Clone(),
	}
}

func (b *Board) Position() *Position {
	return b.pos
}

func (b *Board) Turn() Color {
	return b.pos.Turn()
}

func (b *Board) Hash() ZobristHash {
	return b.pos.Hash()
}

func (b *Board) NoProgress() int {
	return b.pos.NoProgress()
}

func (b *Board) Ply() int {
	return b.pos.Ply()
}

func (b *Board) FullMoves() int {
	return b.fullmoves
}

func (b *Board) Result() Result {
	return b.result
}

// PushMove attempts to make a legal move. Returns true iff legal and the game
// was not already decided.
func (b *Board) PushMove(m Move) bool {
	if b.result.Outcome != Undecided {
		return false
	}
	if !b.pos.IsLegalMove(m) {
		return false
	}

	turn := b.pos.Turn()
	b.pos.Make(m)
	if turn == O {
		b.fullmoves++
	}

	b.updateResult()
	return true
}

// PopMove undoes the last move, if any, and clears any adjudicated result: a
// position with a legal move just undone from it cannot be terminal.
func (b *Board) PopMove() (Move, bool) {
	if b.pos.Ply() == 0 {
		return Move{}, false
	}

	n := len(b.pos.history)
	m := b.pos.history[n-1].move

	mover := b.pos.stm.Opponent() // side to move is about to revert to the one that played m
	b.pos.Unmake()
	if mover == O {
		b.fullmoves--
	}

	b.result = Result{}
	return m, true
}

// LastMove returns the last move played, if any.
func (b *Board) LastMove() (Move, bool) {
	if n := len(b.pos.history); n > 0 {
		return b.pos.history[n-1].move, true
	}
	return Move{}, false
}

// Adjudicate forces the given result, e.g. from an external time-forfeit ruling.
func (b *Board) Adjudicate(result Result) {
	b.result = result
}

// updateResult recomputes the terminal result from scratch: a side with no
// stones loses, a full board awards the side with more stones (a draw if
// equal), two consecutive forced passes end the game by stone count the same
// way, and an exhausted no-progress counter or a 3-fold repetition draws.
func (b *Board) updateResult() {
	p := b.pos
	xCount, oCount := p.Count(X), p.Count(O)

	switch {
	case xCount == 0:
		b.result = Result{Outcome: OWins, Reason: NoStonesLeft}
	case oCount == 0:
		b.result = Result{Outcome: XWins, Reason: NoStonesLeft}
	case p.IsFull():
		b.result = Result{Outcome: Winner(xCount, oCount), Reason: BoardFull}
	case p.LastTwoPassed():
		b.result = Result{Outcome: Winner(xCount, oCount), Reason: NoMovesLeft}
	case p.NoProgress() >= noprogressPlyLimit:
		b.result = Result{Outcome: Draw, Reason: NoProgress}
	case p.IsRepetition():
		b.result = Result{Outcome: Draw, Reason: Repetition3}
	default:
		b.result = Result{}
	}
}

func (b *Board) String() string {
	return fmt.Sprintf("board{pos=%v, fullmoves=%v, result=%v}", b.pos, b.fullmoves, b.result)
}

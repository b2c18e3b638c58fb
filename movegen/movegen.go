package movegen

import (
	"iter"
	"math/bits"

	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/move"
)

// Generate returns the mask of empty cells where player may place a disc
// against opponent.
func Generate(player, opponent uint64) uint64 {
	empty := ^(player | opponent)
	var moves uint64
	for _, d := range board.Directions {
		om := opponent & d.Mask()
		t := d.Shift(player) & om
		// A run is at most six discs long on an 8-wide board.
		for i := 0; i < 5; i++ {
			t |= d.Shift(t) & om
		}
		moves |= d.Shift(t)
	}
	return moves & empty
}

// LegalMoves returns the legal destination mask for the side to move.
func LegalMoves(b board.Board) uint64 {
	return LegalMovesFor(b, b.Turn())
}

// LegalMovesFor returns the legal destination mask for turn.
func LegalMovesFor(b board.Board, turn board.Turn) uint64 {
	black, white := b.Bits()
	if turn == board.WhiteTurn {
		return Generate(white, black)
	}
	return Generate(black, white)
}

// Moves enumerates the legal placements for the side to move in ascending
// cell index order. An empty sequence means the side must pass.
func Moves(b board.Board) iter.Seq[move.Move] {
	return FromMask(LegalMoves(b))
}

// MovesFor is Moves for an explicit side.
func MovesFor(b board.Board, turn board.Turn) iter.Seq[move.Move] {
	return FromMask(LegalMovesFor(b, turn))
}

// FromMask enumerates the set bits of mask as placements. The mask is
// captured by value, so the sequence can be ranged over repeatedly.
func FromMask(mask uint64) iter.Seq[move.Move] {
	return func(yield func(move.Move) bool) {
		for m := mask; m != 0; m &= m - 1 {
			if !yield(move.FromIndex(bits.TrailingZeros64(m))) {
				return
			}
		}
	}
}

// Mobility is the number of legal placements for turn.
func Mobility(b board.Board, turn board.Turn) int {
	return bits.OnesCount64(LegalMovesFor(b, turn))
}

func HasMoves(b board.Board, turn board.Turn) bool {
	return LegalMovesFor(b, turn) != 0
}

// Putable reports whether the side to move may place a disc at (x, y).
func Putable(b board.Board, x, y int) bool {
	if x < 0 || x > 7 || y < 0 || y > 7 {
		return false
	}
	return LegalMoves(b)&(uint64(1)<<uint(y*8+x)) != 0
}

// GameOver reports whether neither side can place a disc.
func GameOver(b board.Board) bool {
	black, white := b.Bits()
	return Generate(black, white) == 0 && Generate(white, black) == 0
}

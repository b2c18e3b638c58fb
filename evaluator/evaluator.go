// Package evaluator scores positions from Black's point of view.
package evaluator

import (
	"math/bits"

	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/movegen"
)

var weights = [64]int{
	30, -12, 0, -1, -1, 0, -12, 30,
	-12, -15, -3, -3, -3, -3, -15, -12,
	0, -3, 0, -1, -1, 0, -3, 0,
	-1, -3, -1, -1, -1, -1, -3, -1,
	-1, -3, -1, -1, -1, -1, -3, -1,
	0, -3, 0, -1, -1, 0, -3, 0,
	-12, -15, -3, -3, -3, -3, -15, -12,
	30, -12, 0, -1, -1, 0, -12, 30,
}

const (
	midgameDiscs = 20
	endgameDiscs = 44
)

// Weight returns the positional value of a cell.
func Weight(x, y int) int {
	return weights[y*8+x]
}

// Evaluator keeps one stable-disc cache per color. The caches describe the
// real game line; Advance moves them forward and Reset drops them.
type Evaluator struct {
	stableBlack uint64
	stableWhite uint64
	lastCount   int
}

func New() *Evaluator {
	return &Evaluator{}
}

func (e *Evaluator) Reset() {
	e.stableBlack = 0
	e.stableWhite = 0
	e.lastCount = 0
}

// Advance updates the caches from a position reached in the actual game.
// A position with fewer discs than the previous one belongs to a new game,
// so the caches are dropped first.
func (e *Evaluator) Advance(b board.Board) {
	n := board.CountBoth(b)
	if n < e.lastCount {
		e.Reset()
	}
	e.stableBlack = StableDiscs(b, board.Black, e.stableBlack)
	e.stableWhite = StableDiscs(b, board.White, e.stableWhite)
	e.lastCount = n
}

// Cached returns the stable sets recorded by the last Advance.
func (e *Evaluator) Cached() (black, white uint64) {
	return e.stableBlack, e.stableWhite
}

// Evaluate scores b; positive favors Black. It reads the caches as a seed
// but does not store into them, since b is usually a hypothetical leaf.
func (e *Evaluator) Evaluate(b board.Board) int {
	pos := Positional(b)
	stab := e.Stability(b)
	switch n := board.CountBoth(b); {
	case n < midgameDiscs:
		return pos + 5*stab + 4*Mobility(b)
	case n < endgameDiscs:
		return 2*pos + 5*stab + Mobility(b)
	default:
		return 2*pos + 8*stab
	}
}

// Stability is the number of stable Black discs minus stable White discs.
func (e *Evaluator) Stability(b board.Board) int {
	sb := StableDiscs(b, board.Black, e.stableBlack)
	sw := StableDiscs(b, board.White, e.stableWhite)
	return bits.OnesCount64(sb) - bits.OnesCount64(sw)
}

// Positional sums the weight table, Black positive.
func Positional(b board.Board) int {
	black, white := b.Bits()
	score := 0
	for m := black; m != 0; m &= m - 1 {
		score += weights[bits.TrailingZeros64(m)]
	}
	for m := white; m != 0; m &= m - 1 {
		score -= weights[bits.TrailingZeros64(m)]
	}
	return score
}

// Mobility is Black's legal move count minus White's.
func Mobility(b board.Board) int {
	return movegen.Mobility(b, board.BlackTurn) - movegen.Mobility(b, board.WhiteTurn)
}

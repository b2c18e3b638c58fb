// Package alphabeta is a fixed depth minimax searcher with alpha-beta
// pruning over the evaluator's score.
package alphabeta

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/evaluator"
	"github.com/domino14/remedios/move"
	"github.com/domino14/remedios/movegen"
)

/*
function negamax(node, depth, α, β, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node
    value := −∞
    foreach child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break
    return value
*/

const (
	DefaultDepth = 6
	infinity     = 1 << 30
)

// Searcher owns an evaluator, whose stable-disc cache follows the game
// line that Search is called along.
type Searcher struct {
	eval  *evaluator.Evaluator
	depth int
	nodes uint64
}

func NewSearcher(depth int) *Searcher {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &Searcher{eval: evaluator.New(), depth: depth}
}

func (s *Searcher) SetDepth(d int) {
	if d >= 1 {
		s.depth = d
	}
}

func (s *Searcher) Depth() int {
	return s.depth
}

// Nodes is the number of positions visited by the last Search or Score.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

func (s *Searcher) Evaluator() *evaluator.Evaluator {
	return s.eval
}

// Reset must be called before searching a different game.
func (s *Searcher) Reset() {
	s.eval.Reset()
}

// Search returns the best move for the side to move, or a pass if there is
// no legal placement. Among equally scored moves the first in generation
// order wins.
func (s *Searcher) Search(b board.Board) move.Move {
	root := board.FromBoard(b)
	s.eval.Advance(root)
	s.nodes = 0
	start := time.Now()

	best := move.NewPassMove()
	bestVal := -infinity
	alpha := -infinity
	for m := range movegen.Moves(root) {
		child := *root
		mustApply(&child, m)
		v := -s.negamax(&child, s.depth-1, -infinity, -alpha, false)
		if v > bestVal {
			bestVal = v
			best = m
		}
		if v > alpha {
			alpha = v
		}
	}
	log.Debug().
		Str("move", best.String()).
		Int("value", bestVal).
		Int("depth", s.depth).
		Uint64("nodes", s.nodes).
		Dur("elapsed", time.Since(start)).
		Msg("alphabeta-search-done")
	return best
}

// Advance records b, a position of the real game, in the evaluator's
// stable-disc cache.
func (s *Searcher) Advance(b board.Board) {
	s.eval.Advance(b)
}

// Score is the searched value of b for the side to move. It reads the
// stable-disc cache but never updates it, so b may be hypothetical.
func (s *Searcher) Score(b board.Board, depth int) int {
	root := board.FromBoard(b)
	s.nodes = 0
	return s.negamax(root, depth, -infinity, infinity, false)
}

func (s *Searcher) leaf(b *board.BitBoard) int {
	v := s.eval.Evaluate(b)
	if b.Turn() == board.WhiteTurn {
		return -v
	}
	return v
}

func (s *Searcher) negamax(b *board.BitBoard, depth int, α, β int, passed bool) int {
	s.nodes++
	if depth <= 0 {
		return s.leaf(b)
	}
	moves := movegen.LegalMoves(b)
	if moves == 0 {
		if passed {
			return s.leaf(b)
		}
		child := *b
		mustApply(&child, move.NewPassMove())
		return -s.negamax(&child, depth-1, -β, -α, true)
	}
	value := -infinity
	for m := range movegen.FromMask(moves) {
		child := *b
		mustApply(&child, m)
		v := -s.negamax(&child, depth-1, -β, -α, false)
		if v > value {
			value = v
		}
		if value > α {
			α = value
		}
		if α >= β {
			break
		}
	}
	return value
}

func mustApply(b *board.BitBoard, m move.Move) {
	if err := b.ApplyMove(m); err != nil {
		panic(fmt.Sprintf("generated illegal move %v: %v\n%v", m, err, b))
	}
}

// Package strategy chooses moves for an automated player.
package strategy

import (
	"time"

	"lukechampine.com/frand"

	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/move"
	"github.com/domino14/remedios/movegen"
)

// Strategy picks the move for the side to move on b. last is the move that
// produced b, nil at the start of a game. budget is the time allowed.
type Strategy interface {
	Play(b board.Board, last *move.Move, budget time.Duration) move.Move
	Reset()
}

// RandomStrategy plays the first legal cell of an order shuffled per game.
type RandomStrategy struct {
	rng    *frand.RNG
	points [64]int
}

func NewRandomStrategy(rng *frand.RNG) *RandomStrategy {
	if rng == nil {
		rng = frand.New()
	}
	r := &RandomStrategy{rng: rng}
	r.Reset()
	return r
}

func (r *RandomStrategy) Reset() {
	for i := range r.points {
		r.points[i] = i
	}
	r.rng.Shuffle(len(r.points), func(i, j int) {
		r.points[i], r.points[j] = r.points[j], r.points[i]
	})
}

func (r *RandomStrategy) Play(b board.Board, last *move.Move, budget time.Duration) move.Move {
	legal := movegen.LegalMoves(b)
	for _, p := range r.points {
		if legal&(1<<uint(p)) != 0 {
			return move.FromIndex(p)
		}
	}
	return move.NewPassMove()
}

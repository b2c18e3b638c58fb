// Package automatic plays computer vs computer games and records them.
package automatic

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/move"
	"github.com/domino14/remedios/strategy"
)

// maxPlies bounds a game; 60 placements plus passes can never exceed it.
const maxPlies = 130

// GameRunner plays two strategies against each other.
type GameRunner struct {
	players  [2]strategy.Strategy
	moveTime time.Duration
}

// Result is a finished game and which player index took Black.
type Result struct {
	Record      *GameRecord
	BlackPlayer int
}

func NewGameRunner(p1, p2 strategy.Strategy, moveTime time.Duration) *GameRunner {
	return &GameRunner{players: [2]strategy.Strategy{p1, p2}, moveTime: moveTime}
}

// PlayGame resets both players, flips a coin for colors and plays until
// both sides pass in a row.
func (r *GameRunner) PlayGame(rng *frand.RNG) (*Result, error) {
	for _, p := range r.players {
		p.Reset()
	}
	black := rng.Intn(2)
	seats := [2]strategy.Strategy{r.players[black], r.players[1-black]}

	b := board.NewBitBoard()
	var last *move.Move
	var moves []move.Move
	passes := 0
	for passes < 2 {
		if len(moves) >= maxPlies {
			return nil, fmt.Errorf("game did not end after %d plies", maxPlies)
		}
		m := seats[b.Turn()].Play(b, last, r.moveTime)
		if err := b.ApplyMove(m); err != nil {
			return nil, fmt.Errorf("player %d (%v) played %v: %w", black^int(b.Turn()), b.Turn(), m, err)
		}
		if m.IsPass() {
			passes++
		} else {
			passes = 0
		}
		moves = append(moves, m)
		last = &m
	}
	rec := &GameRecord{Moves: moves, Black: b.Count(board.Black), White: b.Count(board.White)}
	log.Debug().Int("black", rec.Black).Int("white", rec.White).Int("plies", len(moves)).Msg("game-over")
	return &Result{Record: rec, BlackPlayer: black}, nil
}

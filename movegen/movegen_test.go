package movegen

import (
	"slices"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/move"
)

func TestStartMoves(t *testing.T) {
	is := is.New(t)
	b := board.NewBitBoard()
	moves := slices.Collect(Moves(b))
	is.Equal(moves, []move.Move{
		move.NewPlaceMove(3, 2),
		move.NewPlaceMove(2, 3),
		move.NewPlaceMove(5, 4),
		move.NewPlaceMove(4, 5),
	})
	// Ranging again yields the same sequence.
	is.Equal(slices.Collect(Moves(b)), moves)
	is.Equal(Mobility(b, board.BlackTurn), 4)
	is.Equal(Mobility(b, board.WhiteTurn), 4)
	is.True(Putable(b, 2, 3))
	is.True(!Putable(b, 3, 3))
	is.True(!Putable(b, 0, 0))
	is.True(!Putable(b, -1, 9))
	is.True(!GameOver(b))
}

func TestEarlyStop(t *testing.T) {
	is := is.New(t)
	b := board.NewBitBoard()
	n := 0
	for range Moves(b) {
		n++
		if n == 2 {
			break
		}
	}
	is.Equal(n, 2)
}

func TestGameOver(t *testing.T) {
	is := is.New(t)
	b, err := board.FromRows([]string{
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXX..",
	}, board.WhiteTurn)
	is.NoErr(err)
	is.True(GameOver(b))
	is.Equal(len(slices.Collect(Moves(b))), 0)
}

// TestMatchesExhaustiveCheck compares the generator against trying every
// cell with ApplyMove along random games.
func TestMatchesExhaustiveCheck(t *testing.T) {
	is := is.New(t)
	for g := 0; g < 50; g++ {
		seed := make([]byte, 32)
		seed[0] = byte(g)
		rng := frand.NewCustom(seed, 1024, 12)
		b := board.NewBitBoard()
		passes := 0
		for passes < 2 {
			var expected []move.Move
			for i := 0; i < 64; i++ {
				m := move.FromIndex(i)
				if b.Copy().ApplyMove(m) == nil {
					expected = append(expected, m)
				}
			}
			got := slices.Collect(Moves(b))
			is.Equal(len(got), len(expected))
			for i := range got {
				is.Equal(got[i], expected[i])
				x, y := got[i].Coords()
				is.Equal(b.Get(x, y), board.Empty)
			}
			if len(got) == 0 {
				is.NoErr(b.ApplyMove(move.NewPassMove()))
				passes++
				continue
			}
			passes = 0
			is.NoErr(b.ApplyMove(got[rng.Intn(len(got))]))
		}
		is.True(GameOver(b))
	}
}

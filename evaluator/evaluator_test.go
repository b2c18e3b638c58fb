package evaluator

import (
	"math/bits"
	"slices"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/move"
	"github.com/domino14/remedios/movegen"
)

func mustRows(t *testing.T, turn board.Turn, rows ...string) *board.BitBoard {
	b, err := board.FromRows(rows, turn)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func bit(x, y int) uint64 {
	return 1 << uint(y*8+x)
}

func TestEdgeFulfilled(t *testing.T) {
	is := is.New(t)
	b := mustRows(t, board.BlackTurn,
		"XXOOXOOX",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	stable := StableDiscs(b, board.Black, 0)
	is.Equal(bits.OnesCount64(stable), 4)
	is.Equal(stable, bit(0, 0)|bit(1, 0)|bit(4, 0)|bit(7, 0))
	is.Equal(edgeRuns(bit(0, 0)|bit(1, 0)|bit(4, 0)|bit(7, 0)), bit(0, 0)|bit(1, 0)|bit(7, 0))
}

func TestStartPositionHasNoStableDiscs(t *testing.T) {
	is := is.New(t)
	b := board.NewBitBoard()
	is.Equal(StableDiscs(b, board.Black, 0), uint64(0))
	is.Equal(StableDiscs(b, board.White, 0), uint64(0))
	e := New()
	is.Equal(Positional(b), 0)
	is.Equal(e.Evaluate(b), 0)
}

func TestCornerAndInteriorStability(t *testing.T) {
	is := is.New(t)
	b := mustRows(t, board.WhiteTurn,
		"XXX.....",
		"XX......",
		"X.......",
		"........",
		"...XO...",
		"........",
		"........",
		"........",
	)
	stable := StableDiscs(b, board.Black, 0)
	// The corner triangle is stable; (1,1) leans on stable neighbors on every axis.
	is.Equal(stable, bit(0, 0)|bit(1, 0)|bit(2, 0)|bit(0, 1)|bit(1, 1)|bit(0, 2))
	is.Equal(StableDiscs(b, board.White, 0), uint64(0))
}

func TestSeedOnlyKeepsOwnDiscs(t *testing.T) {
	is := is.New(t)
	b := board.NewBitBoard()
	// A seed from some other game must not invent discs that are not there.
	is.Equal(StableDiscs(b, board.Black, bit(0, 0)|bit(3, 4)), bit(3, 4))
}

func TestPhaseWeights(t *testing.T) {
	is := is.New(t)
	e := New()
	early := mustRows(t, board.BlackTurn,
		"X.......",
		"........",
		"........",
		"...OX...",
		"...XO...",
		"........",
		"........",
		"........",
	)
	pos := Positional(early)
	is.Equal(pos, 30)
	is.Equal(e.Stability(early), 1)
	is.Equal(e.Evaluate(early), pos+5*e.Stability(early)+4*Mobility(early))

	full := mustRows(t, board.BlackTurn,
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"OOOOOOOO",
		"OOOOOOOO",
		"OOOOOOOO",
		"........",
		"........",
	)
	is.Equal(full.CountBoth(), 48)
	is.Equal(e.Evaluate(full), 2*Positional(full)+8*e.Stability(full))
}

func TestEvaluateDoesNotStore(t *testing.T) {
	is := is.New(t)
	e := New()
	b := mustRows(t, board.BlackTurn,
		"X.......",
		"........",
		"........",
		"...OX...",
		"...XO...",
		"........",
		"........",
		"........",
	)
	e.Evaluate(b)
	black, white := e.Cached()
	is.Equal(black, uint64(0))
	is.Equal(white, uint64(0))
	e.Advance(b)
	black, _ = e.Cached()
	is.Equal(black, bit(0, 0))
}

// TestStabilityAlongRandomGames checks that the cache only grows along a
// line of play and that a disc reported stable is never flipped later.
func TestStabilityAlongRandomGames(t *testing.T) {
	is := is.New(t)
	for g := 0; g < 40; g++ {
		seed := make([]byte, 32)
		seed[0] = byte(g)
		rng := frand.NewCustom(seed, 1024, 12)
		e := New()
		b := board.NewBitBoard()
		var seenBlack, seenWhite uint64
		passes := 0
		for passes < 2 {
			prevBlack, prevWhite := e.Cached()
			e.Advance(b)
			cb, cw := e.Cached()
			is.Equal(cb&prevBlack, prevBlack)
			is.Equal(cw&prevWhite, prevWhite)
			is.True(bits.OnesCount64(cb) >= bits.OnesCount64(prevBlack))

			fresh := StableDiscs(b, board.Black, 0)
			is.Equal(cb&fresh, fresh)

			black, white := b.Bits()
			is.Equal(black&seenBlack, seenBlack)
			is.Equal(white&seenWhite, seenWhite)
			seenBlack |= cb
			seenWhite |= cw

			moves := slices.Collect(movegen.Moves(b))
			if len(moves) == 0 {
				is.NoErr(b.ApplyMove(move.NewPassMove()))
				passes++
				continue
			}
			passes = 0
			is.NoErr(b.ApplyMove(moves[rng.Intn(len(moves))]))
		}
	}
}

func TestAdvanceDetectsNewGame(t *testing.T) {
	is := is.New(t)
	e := New()
	full := mustRows(t, board.BlackTurn,
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"OOOOOOOO",
		"OOOOOOOO",
		"OOOOOOOO",
		"........",
		"........",
	)
	e.Advance(full)
	black, _ := e.Cached()
	is.True(black != 0)
	e.Advance(board.NewBitBoard())
	black, white := e.Cached()
	is.Equal(black, uint64(0))
	is.Equal(white, uint64(0))
}

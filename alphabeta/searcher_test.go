package alphabeta

import (
	"slices"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/evaluator"
	"github.com/domino14/remedios/move"
	"github.com/domino14/remedios/movegen"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	m.Run()
}

// minimax is the unpruned reference search, always from Black's view.
func minimax(e *evaluator.Evaluator, b *board.BitBoard, depth int, passed bool) int {
	if depth == 0 {
		return e.Evaluate(b)
	}
	moves := slices.Collect(movegen.Moves(b))
	if len(moves) == 0 {
		if passed {
			return e.Evaluate(b)
		}
		moves = []move.Move{move.NewPassMove()}
	}
	maximize := b.Turn() == board.BlackTurn
	best := 0
	for i, m := range moves {
		child := *b
		if err := child.ApplyMove(m); err != nil {
			panic(err)
		}
		v := minimax(e, &child, depth-1, m.IsPass())
		if i == 0 || (maximize && v > best) || (!maximize && v < best) {
			best = v
		}
	}
	return best
}

func randomPosition(g int, plies int) *board.BitBoard {
	seed := make([]byte, 32)
	seed[0] = byte(g)
	rng := frand.NewCustom(seed, 1024, 12)
	b := board.NewBitBoard()
	for i := 0; i < plies; i++ {
		moves := slices.Collect(movegen.Moves(b))
		if len(moves) == 0 {
			if movegen.GameOver(b) {
				break
			}
			b.ApplyMove(move.NewPassMove())
			continue
		}
		b.ApplyMove(moves[rng.Intn(len(moves))])
	}
	return b
}

func TestMatchesMinimax(t *testing.T) {
	is := is.New(t)
	for g := 0; g < 30; g++ {
		b := randomPosition(g, 8+g)
		s := NewSearcher(3)
		got := s.Score(b, 3)
		want := minimax(s.Evaluator(), b, 3, false)
		if b.Turn() == board.WhiteTurn {
			want = -want
		}
		is.Equal(got, want)
	}
}

func TestSearchPicksFirstBest(t *testing.T) {
	is := is.New(t)
	for g := 0; g < 20; g++ {
		b := randomPosition(100+g, 10+g)
		s := NewSearcher(3)
		m := s.Search(b)
		moves := slices.Collect(movegen.Moves(b))
		if len(moves) == 0 {
			is.True(m.IsPass())
			continue
		}
		e := s.Evaluator()
		var expected move.Move
		bestVal := 0
		for i, cand := range moves {
			child := *b
			is.NoErr(child.ApplyMove(cand))
			v := minimax(e, &child, 2, false)
			if b.Turn() == board.WhiteTurn {
				v = -v
			}
			if i == 0 || v > bestVal {
				bestVal = v
				expected = cand
			}
		}
		is.Equal(m, expected)
		is.True(s.Nodes() > 0)
	}
}

func TestSearchWithoutMovesPasses(t *testing.T) {
	is := is.New(t)
	b, err := board.FromRows([]string{
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXX.O",
	}, board.BlackTurn)
	is.NoErr(err)
	s := NewSearcher(DefaultDepth)
	is.True(s.Search(b).IsPass())
}

func TestSearchDoesNotMutate(t *testing.T) {
	is := is.New(t)
	b := board.NewBitBoard()
	before := *b
	s := NewSearcher(4)
	m := s.Search(b)
	is.Equal(*b, before)
	is.True(movegen.Putable(b, m.X(), m.Y()))
}

func TestSetDepth(t *testing.T) {
	is := is.New(t)
	s := NewSearcher(0)
	is.Equal(s.Depth(), DefaultDepth)
	s.SetDepth(2)
	is.Equal(s.Depth(), 2)
	s.SetDepth(-1)
	is.Equal(s.Depth(), 2)
}

func TestSiblingScoresIndependentOfOrder(t *testing.T) {
	is := is.New(t)
	for g := 0; g < 20; g++ {
		b := randomPosition(200+g, 36+g)
		children := []*board.BitBoard{}
		for m := range movegen.Moves(b) {
			child := *b
			is.NoErr(child.ApplyMove(m))
			children = append(children, &child)
		}

		shared := NewSearcher(2)
		shared.Advance(b)
		sb, sw := shared.Evaluator().Cached()

		forward := make([]int, len(children))
		for i, c := range children {
			forward[i] = shared.Score(c, 1)
		}
		for i := len(children) - 1; i >= 0; i-- {
			is.Equal(shared.Score(children[i], 1), forward[i])
		}
		for i, c := range children {
			fresh := NewSearcher(2)
			fresh.Advance(b)
			is.Equal(fresh.Score(c, 1), forward[i])
		}

		// Scoring hypothetical positions leaves the cache at the root's.
		cb, cw := shared.Evaluator().Cached()
		is.Equal(cb, sb)
		is.Equal(cw, sw)
	}
}

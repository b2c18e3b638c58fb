package endgame

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"

	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/move"
	"github.com/domino14/remedios/movegen"
)

// bruteForce is plain minimax over outcome classes to the end of the game.
func bruteForce(b *board.BitBoard, color board.Turn) Outcome {
	moves := slices.Collect(movegen.Moves(b))
	if len(moves) == 0 {
		if movegen.GameOver(b) {
			return OutcomeOf(b, color)
		}
		moves = []move.Move{move.NewPassMove()}
	}
	mine := b.Turn() == color
	best := MyWin
	if mine {
		best = MyLoss
	}
	for _, m := range moves {
		child := *b
		if err := child.ApplyMove(m); err != nil {
			panic(err)
		}
		v := bruteForce(&child, color)
		if mine {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	return best
}

func rng(n int) *frand.RNG {
	seed := make([]byte, 32)
	seed[0] = byte(n)
	seed[1] = 0xe9
	return frand.NewCustom(seed, 1024, 12)
}

// lateGame plays random moves until at most empties cells are left.
func lateGame(r *frand.RNG, empties int) *board.BitBoard {
	for {
		b := board.NewBitBoard()
		for b.Count(board.Empty) > empties && !movegen.GameOver(b) {
			moves := slices.Collect(movegen.Moves(b))
			if len(moves) == 0 {
				b.ApplyMove(move.NewPassMove())
				continue
			}
			b.ApplyMove(moves[r.Intn(len(moves))])
		}
		if !movegen.GameOver(b) {
			return b
		}
	}
}

func TestSolveMatchesBruteForce(t *testing.T) {
	for g := 0; g < 25; g++ {
		r := rng(g)
		b := lateGame(r, 9)
		color := b.Turn()
		if g%2 == 1 {
			color = color.Opposite()
		}
		want := bruteForce(b, color)

		tree, err := Solve(b, color, true)
		require.NoError(t, err)
		worst, best := tree.Bounds()
		assert.Equal(t, want, worst)
		assert.Equal(t, want, best)

		tree, err = Solve(b, color, false)
		require.NoError(t, err)
		worst, best = tree.Bounds()
		assert.Equal(t, want, worst)
		assert.GreaterOrEqual(t, int(best), int(worst))
	}
}

func TestChildrenSortedBestFirst(t *testing.T) {
	b := lateGame(rng(77), 8)
	color := b.Turn()
	tree, err := Solve(b, color, false)
	require.NoError(t, err)
	require.True(t, tree.Mine())
	children := tree.Children()
	require.NotEmpty(t, children)
	worst, _ := tree.Bounds()
	first, _ := children[0].Tree.Bounds()
	assert.Equal(t, worst, first)
	seenPruned := false
	for _, c := range children {
		if c.Tree == nil {
			seenPruned = true
			continue
		}
		assert.False(t, seenPruned, "explored branch after a pruned one")
	}
}

func TestSearchPlaysOptimally(t *testing.T) {
	for g := 0; g < 6; g++ {
		r := rng(100 + g)
		b := lateGame(r, 9)
		me := b.Turn()
		guaranteed := bruteForce(b, me)

		s := NewSolver(g%2 == 0, DefaultMemoryFraction)
		var last *move.Move
		for !movegen.GameOver(b) {
			var m move.Move
			if b.Turn() == me {
				var err error
				m, err = s.Search(b, me, last)
				require.NoError(t, err)
				if m.IsPass() {
					assert.False(t, movegen.HasMoves(b, me))
				}
				require.NoError(t, b.ApplyMove(m))
				// Playing the solver's move never loses what was guaranteed.
				assert.GreaterOrEqual(t, int(bruteForce(b, me)), int(guaranteed))
			} else {
				moves := slices.Collect(movegen.Moves(b))
				m = move.NewPassMove()
				if len(moves) > 0 {
					m = moves[r.Intn(len(moves))]
				}
				require.NoError(t, b.ApplyMove(m))
			}
			last = &m
		}
		assert.GreaterOrEqual(t, int(OutcomeOf(b, me)), int(guaranteed))
	}
}

func TestTreeIsReused(t *testing.T) {
	b := lateGame(rng(5), 9)
	me := b.Turn()
	s := NewSolver(true, DefaultMemoryFraction)
	m, err := s.Search(b, me, nil)
	require.NoError(t, err)
	require.NotNil(t, s.Root())
	assert.True(t, s.Root().Solved())
	assert.False(t, s.Root().Mine())

	require.NoError(t, b.ApplyMove(m))
	replies := slices.Collect(movegen.Moves(b))
	reply := move.NewPassMove()
	if len(replies) > 0 {
		reply = replies[0]
	}
	require.NoError(t, b.ApplyMove(reply))
	if movegen.GameOver(b) {
		return
	}
	require.True(t, s.Go(reply))
	assert.True(t, s.Root().Mine())
	_, err = s.Search(b, me, nil)
	require.NoError(t, err)
}

func TestRebuildOnMismatch(t *testing.T) {
	b := lateGame(rng(6), 8)
	me := b.Turn()
	s := NewSolver(true, DefaultMemoryFraction)
	_, err := s.Search(b, me, nil)
	require.NoError(t, err)

	other := lateGame(rng(7), 8)
	m, err := s.Search(other, other.Turn(), nil)
	require.NoError(t, err)
	if !m.IsPass() {
		assert.True(t, movegen.Putable(other, m.X(), m.Y()))
	}
	s.Reset()
	assert.Nil(t, s.Root())
	assert.False(t, s.Go(move.NewPassMove()))
}

func TestNodeBudget(t *testing.T) {
	b := lateGame(rng(8), 10)
	s := NewSolver(false, DefaultMemoryFraction)
	s.SetNodeBudget(3)
	_, err := s.Search(b, b.Turn(), nil)
	assert.True(t, errors.Is(err, ErrTreeTooLarge))
	assert.Nil(t, s.Root())
}

func TestTerminalOutcome(t *testing.T) {
	b, err := board.FromRows([]string{
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"OOOOOOOO",
		"OOOOOOOO",
		"OOOOOOOO",
		"OOOOOOO.",
	}, board.BlackTurn)
	require.NoError(t, err)
	assert.Equal(t, MyWin, OutcomeOf(b, board.BlackTurn))
	assert.Equal(t, MyLoss, OutcomeOf(b, board.WhiteTurn))
	s := NewSolver(true, DefaultMemoryFraction)
	m, err := s.Search(b, board.BlackTurn, nil)
	require.NoError(t, err)
	assert.Equal(t, move.NewPlaceMove(7, 7), m)
	worst, _ := s.Root().Bounds()
	assert.Equal(t, MyWin, worst)
	assert.Empty(t, s.Root().Children())
}

// Package endgame solves the last plies of a game exactly. The solve
// result is a tree that is kept between moves and descended as the real
// game advances.
package endgame

import (
	"errors"
	"fmt"
	"time"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/move"
	"github.com/domino14/remedios/movegen"
)

const (
	// approxNodeBytes is the rough heap cost of one node and its branch.
	approxNodeBytes = 96
	minNodeBudget   = 1 << 16
	fallbackBudget  = 1 << 24

	DefaultMemoryFraction = 0.25
)

var ErrTreeTooLarge = errors.New("endgame tree exceeds node budget")

type Solver struct {
	endingOpt bool
	budget    int
	nodes     int

	root      *GameTree
	rootBoard board.BitBoard
	color     board.Turn
}

// NewSolver creates a solver. With endingOpt the opponent is assumed to
// play perfectly, which prunes more. The tree may use at most
// memoryFraction of system memory.
func NewSolver(endingOpt bool, memoryFraction float64) *Solver {
	return &Solver{endingOpt: endingOpt, budget: nodeBudget(memoryFraction)}
}

func nodeBudget(fraction float64) int {
	if fraction <= 0 || fraction > 1 {
		fraction = DefaultMemoryFraction
	}
	total := memory.TotalMemory()
	if total == 0 {
		return fallbackBudget
	}
	n := int(float64(total) * fraction / approxNodeBytes)
	if n < minNodeBudget {
		n = minNodeBudget
	}
	return n
}

func (s *Solver) SetEndingOpt(o bool) {
	if o != s.endingOpt {
		s.root = nil
	}
	s.endingOpt = o
}

func (s *Solver) EndingOpt() bool {
	return s.endingOpt
}

// SetNodeBudget overrides the node budget derived from system memory.
func (s *Solver) SetNodeBudget(n int) {
	s.budget = n
}

// Root is the tree for the current position, or nil.
func (s *Solver) Root() *GameTree {
	return s.root
}

// Reset discards the tree.
func (s *Solver) Reset() {
	s.root = nil
}

// Go descends the tree along m, played by whoever is to move in the tree's
// position. It reports whether a tree is still available.
func (s *Solver) Go(m move.Move) bool {
	if s.root == nil {
		return false
	}
	if !s.root.solved {
		// Nothing was explored below this node yet.
		s.root = nil
		return false
	}
	sub := s.root.take(m)
	if sub == nil {
		log.Debug().Str("move", m.String()).Msg("endgame-move-not-in-tree")
		s.root = nil
		return false
	}
	if err := s.rootBoard.ApplyMove(m); err != nil {
		panic(fmt.Sprintf("tree branch %v is illegal: %v", m, err))
	}
	s.root = sub
	return true
}

// Search returns the best move for myColor in b. last is the move that led
// to b, if any; it is used to descend the tree built on an earlier call.
func (s *Solver) Search(b board.Board, myColor board.Turn, last *move.Move) (move.Move, error) {
	if s.root != nil && last != nil {
		s.Go(*last)
	}
	pos := board.FromBoard(b)
	if s.root == nil || s.color != myColor || !s.rootBoard.Equal(pos) {
		if s.root != nil {
			log.Debug().Msg("endgame-tree-rebuild")
		}
		s.root = &GameTree{}
		s.rootBoard = *pos
		s.color = myColor
	}
	if !s.root.solved {
		start := time.Now()
		s.nodes = 0
		scratch := s.rootBoard
		if err := s.solve(s.root, &scratch); err != nil {
			s.root = nil
			return move.NewPassMove(), err
		}
		log.Debug().
			Int("nodes", s.nodes).
			Str("worst", s.root.worst.String()).
			Str("best", s.root.best.String()).
			Dur("elapsed", time.Since(start)).
			Msg("endgame-solved")
	}
	if len(s.root.children) == 0 {
		return move.NewPassMove(), nil
	}
	m := s.root.children[0].Move
	s.Go(m)
	return m, nil
}

// Solve builds a full tree for b from color's point of view.
func Solve(b board.Board, color board.Turn, endingOpt bool) (*GameTree, error) {
	s := NewSolver(endingOpt, DefaultMemoryFraction)
	s.color = color
	t := &GameTree{}
	if err := s.solve(t, board.FromBoard(b)); err != nil {
		return nil, err
	}
	return t, nil
}

// solve explores t, whose position is b, to the end of the game. b is
// restored before returning.
func (s *Solver) solve(t *GameTree, b *board.BitBoard) error {
	s.nodes++
	if s.nodes > s.budget {
		return ErrTreeTooLarge
	}
	t.mine = b.Turn() == s.color
	t.solved = true
	moves := movegen.LegalMoves(b)
	if moves == 0 {
		if !movegen.HasMoves(b, b.Turn().Opposite()) {
			o := OutcomeOf(b, s.color)
			t.worst, t.best = o, o
			return nil
		}
		t.children = []Branch{{Move: move.NewPassMove()}}
	} else {
		t.children = make([]Branch, 0, 12)
		for m := range movegen.FromMask(moves) {
			t.children = append(t.children, Branch{Move: m})
		}
	}

	if t.mine {
		t.worst, t.best = MyLoss, MyLoss
	} else {
		t.worst, t.best = MyWin, MyWin
		if !s.endingOpt {
			t.best = MyLoss
		}
	}
	saved := *b
	for i := range t.children {
		if err := b.ApplyMove(t.children[i].Move); err != nil {
			panic(fmt.Sprintf("generated illegal move %v: %v", t.children[i].Move, err))
		}
		child := &GameTree{}
		err := s.solve(child, b)
		*b = saved
		if err != nil {
			return err
		}
		t.children[i].Tree = child
		if s.merge(t, child) {
			break
		}
	}
	t.sortChildren()
	return nil
}

// merge folds a solved child into t's bounds and reports whether the
// remaining siblings can be skipped.
func (s *Solver) merge(t, child *GameTree) bool {
	if t.mine {
		t.worst = max(t.worst, child.worst)
		t.best = max(t.best, child.best)
		return t.worst == MyWin
	}
	t.worst = min(t.worst, child.worst)
	if s.endingOpt {
		t.best = min(t.best, child.best)
		return t.worst == MyLoss
	}
	t.best = max(t.best, child.best)
	return t.worst == MyLoss && t.best == MyWin
}

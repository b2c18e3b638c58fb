package endgame

import (
	"fmt"
	"sort"

	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/move"
)

// Outcome is a final result class from the solving color's point of view.
type Outcome int8

const (
	MyLoss Outcome = -1
	Tie    Outcome = 0
	MyWin  Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case MyLoss:
		return "loss"
	case MyWin:
		return "win"
	}
	return "tie"
}

// OutcomeOf compares the final disc counts for color.
func OutcomeOf(b board.Board, color board.Turn) Outcome {
	mine := board.Count(b, color.Tile())
	theirs := board.Count(b, color.Opposite().Tile())
	switch {
	case mine > theirs:
		return MyWin
	case mine < theirs:
		return MyLoss
	}
	return Tie
}

// Branch is a move and the subtree it leads to. Tree is nil for a branch
// that was pruned and never explored.
type Branch struct {
	Move move.Move
	Tree *GameTree
}

// GameTree is a node of the exact solve. worst is the outcome the solving
// color can force; best is the outcome it may reach if the opponent errs.
type GameTree struct {
	solved   bool
	mine     bool
	worst    Outcome
	best     Outcome
	children []Branch
}

func (t *GameTree) Solved() bool {
	return t.solved
}

// Mine is true when the solving color is to move at this node.
func (t *GameTree) Mine() bool {
	return t.mine
}

func (t *GameTree) Bounds() (worst, best Outcome) {
	return t.worst, t.best
}

// Children returns the branches sorted best first for the side to move.
// Explored branches come before pruned ones.
func (t *GameTree) Children() []Branch {
	return t.children
}

// take removes the subtree for m from t. It returns nil if m is not a
// child. An unexplored branch yields a fresh unsolved node.
func (t *GameTree) take(m move.Move) *GameTree {
	for i := range t.children {
		if t.children[i].Move != m {
			continue
		}
		sub := t.children[i].Tree
		t.children = nil
		if sub == nil {
			sub = &GameTree{}
		}
		return sub
	}
	return nil
}

// sortChildren orders branches best first for whoever moves at t.
func (t *GameTree) sortChildren() {
	sort.SliceStable(t.children, func(i, j int) bool {
		a, b := t.children[i].Tree, t.children[j].Tree
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		if t.mine {
			if a.worst != b.worst {
				return a.worst > b.worst
			}
			return a.best > b.best
		}
		if a.worst != b.worst {
			return a.worst < b.worst
		}
		return a.best < b.best
	})
}

func (t *GameTree) String() string {
	return fmt.Sprintf("<tree solved: %v mine: %v worst: %v best: %v children: %d>",
		t.solved, t.mine, t.worst, t.best, len(t.children))
}

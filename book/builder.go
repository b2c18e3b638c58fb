package book

import (
	"encoding/binary"
	"io"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/domino14/remedios/move"
)

type node struct {
	children map[byte]*node
	games    int
	total    float64
}

func newNode() *node {
	return &node{children: map[byte]*node{}}
}

// Builder accumulates canonical game lines into a trie and writes it in
// the book format.
type Builder struct {
	root     *node
	minGames int
	lines    int
}

// NewBuilder creates a builder that drops positions reached by fewer than
// minGames games.
func NewBuilder(minGames int) *Builder {
	if minGames < 1 {
		minGames = 1
	}
	return &Builder{root: newNode(), minGames: minGames}
}

func (bl *Builder) Lines() int {
	return bl.lines
}

// AddLine adds the canonical move bytes that follow the first move, with
// the game's final score from Black's point of view.
func (bl *Builder) AddLine(line []byte, score float64) {
	n := bl.root
	for _, v := range line {
		c, ok := n.children[v]
		if !ok {
			c = newNode()
			n.children[v] = c
		}
		c.games++
		c.total += score
		n = c
	}
	bl.lines++
}

// AddGame canonicalizes a finished game and adds its first maxPlies plies.
// The score is the final disc differential. It returns false for games that
// do not start with one of the four opening moves.
func (bl *Builder) AddGame(moves []move.Move, black, white, maxPlies int) bool {
	line, ok := CanonicalLine(moves, maxPlies)
	if !ok {
		return false
	}
	bl.AddLine(line, float64(black-white))
	return true
}

// CanonicalLine orients a game so that it starts with C4 and returns the
// move bytes after the first move, stopping at the first pass or after
// maxPlies plies in total.
func CanonicalLine(moves []move.Move, maxPlies int) ([]byte, bool) {
	if len(moves) == 0 || moves[0].IsPass() {
		return nil, false
	}
	var t Transform
	if !t.Init(moves[0].Coords()) {
		return nil, false
	}
	end := min(len(moves), maxPlies)
	line := make([]byte, 0, max(end-1, 0))
	for _, m := range moves[1:max(end, 1)] {
		if m.IsPass() {
			break
		}
		line = append(line, t.Get(m.Byte()))
	}
	return line, true
}

func (bl *Builder) kept(n *node) []byte {
	keys := lo.Filter(lo.Keys(n.children), func(v byte, _ int) bool {
		return n.children[v].games >= bl.minGames
	})
	slices.Sort(keys)
	return keys
}

func blockSize(records int) uint64 {
	return HeaderSize + uint64(records)*RecordSize
}

// WriteTo lays blocks out breadth first with the root at offset 0.
func (bl *Builder) WriteTo(w io.Writer) (int64, error) {
	order := []*node{bl.root}
	keys := map[*node][]byte{bl.root: bl.kept(bl.root)}
	offsets := map[*node]uint64{bl.root: 0}
	off := blockSize(len(keys[bl.root]))
	for i := 0; i < len(order); i++ {
		n := order[i]
		for _, v := range keys[n] {
			c := n.children[v]
			ck := bl.kept(c)
			if len(ck) == 0 {
				continue
			}
			keys[c] = ck
			offsets[c] = off
			off += blockSize(len(ck))
			order = append(order, c)
		}
	}

	buf := make([]byte, 0, off)
	for _, n := range order {
		buf = binary.BigEndian.AppendUint64(buf, uint64(len(keys[n])))
		for _, v := range keys[n] {
			c := n.children[v]
			buf = append(buf, make([]byte, 7)...)
			buf = append(buf, v)
			buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(c.total/float64(c.games)))
			buf = binary.BigEndian.AppendUint64(buf, offsets[c])
		}
	}
	written, err := w.Write(buf)
	return int64(written), err
}

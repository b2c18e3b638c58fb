package evaluator

import (
	"math/bits"

	"github.com/domino14/remedios/board"
)

// The four axes a disc can be flipped along.
var axes = [4][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}}

var (
	// axisLine holds, per cell and axis, every other cell on that line.
	axisLine [64][4]uint64
	// axisNeighbors holds the one or two adjacent cells along the axis.
	axisNeighbors [64][4]uint64
	// axisAtEdge is set when one neighbor along the axis is off the board.
	axisAtEdge [64][4]bool
	edges      [4][8]int
)

func onBoard(x, y int) bool {
	return x >= 0 && x < 8 && y >= 0 && y < 8
}

func init() {
	for i := 0; i < 64; i++ {
		x, y := i%8, i/8
		for a, d := range axes {
			for _, sign := range []int{1, -1} {
				dx, dy := d[0]*sign, d[1]*sign
				if !onBoard(x+dx, y+dy) {
					axisAtEdge[i][a] = true
					continue
				}
				axisNeighbors[i][a] |= 1 << uint((y+dy)*8+x+dx)
				for cx, cy := x+dx, y+dy; onBoard(cx, cy); cx, cy = cx+dx, cy+dy {
					axisLine[i][a] |= 1 << uint(cy*8+cx)
				}
			}
		}
	}
	for k := 0; k < 8; k++ {
		edges[0][k] = k       // row 1
		edges[1][k] = 56 + k  // row 8
		edges[2][k] = k * 8   // column A
		edges[3][k] = k*8 + 7 // column H
	}
}

// edgeRuns returns the discs of own that form an unbroken run from a corner
// along one of the four edges.
func edgeRuns(own uint64) uint64 {
	var stable uint64
	for _, edge := range edges {
		lo := 0
		for ; lo < 8 && own&(1<<uint(edge[lo])) != 0; lo++ {
			stable |= 1 << uint(edge[lo])
		}
		for hi := 7; hi > lo && own&(1<<uint(edge[hi])) != 0; hi-- {
			stable |= 1 << uint(edge[hi])
		}
	}
	return stable
}

func cellStable(i int, stable, occupied uint64) bool {
	for a := range axes {
		if axisAtEdge[i][a] || axisNeighbors[i][a]&stable != 0 {
			continue
		}
		if axisLine[i][a]&^occupied == 0 {
			continue
		}
		return false
	}
	return true
}

// StableDiscs returns the discs of color t that can never be flipped again.
// seed is a set already known to be stable on an earlier position of the
// same line of play; it only ever grows, so it is a valid starting point.
func StableDiscs(b board.Board, t board.Tile, seed uint64) uint64 {
	black, white := b.Bits()
	own := black
	if t == board.White {
		own = white
	}
	occupied := black | white
	stable := seed&own | edgeRuns(own)
	for changed := true; changed; {
		changed = false
		for cand := own &^ stable; cand != 0; cand &= cand - 1 {
			i := bits.TrailingZeros64(cand)
			if cellStable(i, stable, occupied) {
				stable |= 1 << uint(i)
				changed = true
			}
		}
	}
	return stable
}

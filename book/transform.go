package book

import "github.com/domino14/remedios/move"

// Transform maps move bytes between the real board and the orientation the
// book was built in. Each of the four orientations is its own inverse.
// Bytes that are not placements map to themselves.
type Transform struct {
	table [256]byte
}

// IdentityTransform is the orientation of the canonical first move.
func IdentityTransform() Transform {
	var t Transform
	t.Init(CanonicalX, CanonicalY)
	return t
}

// Init sets the orientation from the real coordinates of the first move.
// It returns false if (x, y) is not one of the four opening squares, in
// which case the transform is the identity.
func (t *Transform) Init(x, y int) bool {
	for i := range t.table {
		t.table[i] = byte(i)
	}
	var f func(x, y int) (int, int)
	switch {
	case x == 2 && y == 3:
		return true
	case x == 3 && y == 2:
		f = func(x, y int) (int, int) { return y, x }
	case x == 5 && y == 4:
		f = func(x, y int) (int, int) { return 7 - x, 7 - y }
	case x == 4 && y == 5:
		f = func(x, y int) (int, int) { return 7 - y, 7 - x }
	default:
		return false
	}
	for cx := 0; cx < 8; cx++ {
		for cy := 0; cy < 8; cy++ {
			tx, ty := f(cx, cy)
			t.table[cx<<4|cy] = byte(tx<<4 | ty)
		}
	}
	return true
}

// Get maps a real move byte to the book orientation.
func (t *Transform) Get(v byte) byte {
	return t.table[v]
}

// Inv maps a book move byte back to the real board.
func (t *Transform) Inv(v byte) byte {
	return t.table[v]
}

// Move applies the transform to a whole move.
func (t *Transform) Move(m move.Move) move.Move {
	if m.IsPass() {
		return m
	}
	out, _ := move.FromByte(t.Get(m.Byte()))
	return out
}

package board

// ArrayBoard stores one Tile per cell. It is slow and exists as a second
// representation to cross-check the bitboard against.
type ArrayBoard struct {
	cells [64]Tile
	turn  Turn
}

func NewArrayBoard() *ArrayBoard {
	b := &ArrayBoard{}
	Reset(b)
	return b
}

func (b *ArrayBoard) Get(x, y int) Tile {
	return b.cells[y*8+x]
}

func (b *ArrayBoard) Set(x, y int, t Tile) {
	b.cells[y*8+x] = t
}

func (b *ArrayBoard) Turn() Turn {
	return b.turn
}

func (b *ArrayBoard) SetTurn(t Turn) {
	b.turn = t
}

func (b *ArrayBoard) Bits() (uint64, uint64) {
	var black, white uint64
	for i, t := range b.cells {
		switch t {
		case Black:
			black |= 1 << uint(i)
		case White:
			white |= 1 << uint(i)
		}
	}
	return black, white
}

func (b *ArrayBoard) SetBits(black, white uint64) {
	if black&white != 0 {
		panic("overlapping masks")
	}
	for i := range b.cells {
		bit := uint64(1) << uint(i)
		switch {
		case black&bit != 0:
			b.cells[i] = Black
		case white&bit != 0:
			b.cells[i] = White
		default:
			b.cells[i] = Empty
		}
	}
}

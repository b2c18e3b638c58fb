package board

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/domino14/remedios/move"
)

var ErrBadDiagram = errors.New("bad board diagram")

// BitBoard is the packed board representation. Copying the struct copies
// the position, which is how search code clones it.
type BitBoard struct {
	black uint64
	white uint64
	turn  Turn
}

// NewBitBoard returns the starting position with Black to move.
func NewBitBoard() *BitBoard {
	return &BitBoard{black: StartBlack, white: StartWhite, turn: BlackTurn}
}

// FromBits creates a board from two disjoint masks.
func FromBits(black, white uint64, turn Turn) *BitBoard {
	b := &BitBoard{turn: turn}
	b.SetBits(black, white)
	return b
}

// FromBoard clones any Board into a BitBoard.
func FromBoard(o Board) *BitBoard {
	black, white := o.Bits()
	return FromBits(black, white, o.Turn())
}

// FromRows parses an 8-row diagram, row 1 first. X or B is black, O or W is
// white, and . or - is empty. Spaces are ignored.
func FromRows(rows []string, turn Turn) (*BitBoard, error) {
	if len(rows) != 8 {
		return nil, fmt.Errorf("%w: %d rows", ErrBadDiagram, len(rows))
	}
	b := &BitBoard{turn: turn}
	for y, row := range rows {
		row = strings.ReplaceAll(row, " ", "")
		if len(row) != 8 {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrBadDiagram, y+1, len(row))
		}
		for x, c := range row {
			switch c {
			case 'X', 'x', 'B', 'b':
				b.black |= cellBit(x, y)
			case 'O', 'o', 'W', 'w':
				b.white |= cellBit(x, y)
			case '.', '-':
			default:
				return nil, fmt.Errorf("%w: unexpected %q", ErrBadDiagram, c)
			}
		}
	}
	return b, nil
}

func (b *BitBoard) Get(x, y int) Tile {
	bit := cellBit(x, y)
	switch {
	case b.black&bit != 0:
		return Black
	case b.white&bit != 0:
		return White
	}
	return Empty
}

func (b *BitBoard) Set(x, y int, t Tile) {
	bit := cellBit(x, y)
	b.black &^= bit
	b.white &^= bit
	switch t {
	case Black:
		b.black |= bit
	case White:
		b.white |= bit
	}
}

func (b *BitBoard) Turn() Turn {
	return b.turn
}

func (b *BitBoard) SetTurn(t Turn) {
	b.turn = t
}

func (b *BitBoard) Bits() (uint64, uint64) {
	return b.black, b.white
}

// SetBits replaces the position. It panics if the masks overlap.
func (b *BitBoard) SetBits(black, white uint64) {
	if black&white != 0 {
		panic(fmt.Sprintf("overlapping masks: %#016x", black&white))
	}
	b.black = black
	b.white = white
}

// Discs returns the masks of the side to move and its opponent.
func (b *BitBoard) Discs() (uint64, uint64) {
	if b.turn == WhiteTurn {
		return b.white, b.black
	}
	return b.black, b.white
}

// ApplyMove is the fast path of the package level ApplyMove.
func (b *BitBoard) ApplyMove(m move.Move) error {
	if m.IsPass() {
		b.turn = b.turn.Opposite()
		return nil
	}
	placed := uint64(1) << uint(m.Index())
	if (b.black|b.white)&placed != 0 {
		return ErrAlreadyOccupied
	}
	p, o := b.Discs()
	f := Flips(p, o, placed)
	if f == 0 {
		return ErrNoCaptures
	}
	p |= f | placed
	o &^= f
	if b.turn == WhiteTurn {
		b.white, b.black = p, o
	} else {
		b.black, b.white = p, o
	}
	b.turn = b.turn.Opposite()
	return nil
}

func (b *BitBoard) Reset() {
	b.black, b.white, b.turn = StartBlack, StartWhite, BlackTurn
}

func (b *BitBoard) Count(t Tile) int {
	switch t {
	case Black:
		return bits.OnesCount64(b.black)
	case White:
		return bits.OnesCount64(b.white)
	}
	return 64 - bits.OnesCount64(b.black|b.white)
}

func (b *BitBoard) CountBoth() int {
	return bits.OnesCount64(b.black | b.white)
}

func (b *BitBoard) Copy() *BitBoard {
	c := *b
	return &c
}

func (b *BitBoard) Equal(o *BitBoard) bool {
	return *b == *o
}

func (b *BitBoard) String() string {
	var sb strings.Builder
	sb.WriteString("  A B C D E F G H\n")
	for y := 0; y < 8; y++ {
		fmt.Fprintf(&sb, "%d", y+1)
		for x := 0; x < 8; x++ {
			sb.WriteString(" ")
			sb.WriteString(b.Get(x, y).String())
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "X: %d  O: %d  to move: %s\n", b.Count(Black), b.Count(White), b.turn)
	return sb.String()
}

package move

import (
	"errors"
	"fmt"
	"strings"
)

// MoveType is a type of move; a placement or a pass.
type MoveType uint8

const (
	MoveTypePlace MoveType = iota
	MoveTypePass
)

const (
	// PassByte is the reserved byte used for a pass in book and record files.
	PassByte byte = 0x88
	// FillByte pads self-play records and terminates book lines.
	FillByte byte = 0xff
)

var (
	ErrInvalidMoveByte   = errors.New("invalid move byte")
	ErrInvalidMoveString = errors.New("invalid move string")
)

// Move is either a pass or a disc placed at (x, y). It is a small
// comparable value and can be used as a map key.
type Move struct {
	action MoveType
	x      int8
	y      int8
}

func NewPassMove() Move {
	return Move{action: MoveTypePass}
}

// NewPlaceMove creates a placement at column x, row y. It panics if the
// coordinates are off the board.
func NewPlaceMove(x, y int) Move {
	if x < 0 || x > 7 || y < 0 || y > 7 {
		panic(fmt.Sprintf("coordinates out of range: (%d, %d)", x, y))
	}
	return Move{action: MoveTypePlace, x: int8(x), y: int8(y)}
}

// FromIndex creates a placement from a bit index y*8+x.
func FromIndex(idx int) Move {
	return NewPlaceMove(idx%8, idx/8)
}

func (m Move) Action() MoveType {
	return m.action
}

func (m Move) IsPass() bool {
	return m.action == MoveTypePass
}

// Coords returns the column and row. Both are zero for a pass.
func (m Move) Coords() (int, int) {
	return int(m.x), int(m.y)
}

func (m Move) X() int { return int(m.x) }
func (m Move) Y() int { return int(m.y) }

// Index returns the bit index of the placement, or -1 for a pass.
func (m Move) Index() int {
	if m.IsPass() {
		return -1
	}
	return int(m.y)*8 + int(m.x)
}

// Byte encodes the move with x in the high nibble and y in the low nibble.
func (m Move) Byte() byte {
	if m.IsPass() {
		return PassByte
	}
	return byte(m.x)<<4 | byte(m.y)
}

// ValidPlaceByte reports whether b encodes a placement on the board.
func ValidPlaceByte(b byte) bool {
	return b>>4 < 8 && b&0x0f < 8
}

// FromByte decodes a move byte. The fill byte and other out-of-range values
// are rejected.
func FromByte(b byte) (Move, error) {
	if b == PassByte {
		return NewPassMove(), nil
	}
	if !ValidPlaceByte(b) {
		return Move{}, fmt.Errorf("%w: %#02x", ErrInvalidMoveByte, b)
	}
	return NewPlaceMove(int(b>>4), int(b&0x0f)), nil
}

// String returns the textual form used by the game protocol, e.g. C4 or PASS.
func (m Move) String() string {
	if m.IsPass() {
		return "PASS"
	}
	return string([]byte{'A' + byte(m.x), '1' + byte(m.y)})
}

// FromString parses a move in the textual form returned by String. It is
// case-insensitive.
func FromString(s string) (Move, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "PASS" {
		return NewPassMove(), nil
	}
	if len(s) != 2 || s[0] < 'A' || s[0] > 'H' || s[1] < '1' || s[1] > '8' {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMoveString, s)
	}
	return NewPlaceMove(int(s[0]-'A'), int(s[1]-'1')), nil
}

package board

import (
	"errors"
	"math/bits"

	"github.com/domino14/remedios/move"
)

var (
	ErrAlreadyOccupied = errors.New("cell is already occupied")
	ErrNoCaptures      = errors.New("placement captures nothing")
)

const (
	// StartBlack and StartWhite are the four-disc starting position.
	StartBlack uint64 = 1<<(4*8+3) | 1<<(3*8+4)
	StartWhite uint64 = 1<<(3*8+3) | 1<<(4*8+4)

	// innerColumns excludes the A and H files. Runs along any direction
	// with a horizontal component may not cross them without wrapping.
	innerColumns uint64 = 0x7e7e7e7e7e7e7e7e
	allCells     uint64 = 0xffffffffffffffff
)

// Board is the capability every board representation offers. The flip and
// legality logic in this package is written once against it.
type Board interface {
	Get(x, y int) Tile
	Set(x, y int, t Tile)
	Turn() Turn
	SetTurn(t Turn)
	// Bits exports the board as two disjoint masks, bit index y*8+x.
	Bits() (black, white uint64)
	SetBits(black, white uint64)
}

// Direction is one of the eight compass directions expressed as a bit
// shift plus the mask that forbids wrap-around for runs along it.
type Direction struct {
	shift int
	mask  uint64
}

// Directions lists E, W, S, N, SW, NE, SE, NW in index terms, where S
// means increasing y.
var Directions = [8]Direction{
	{1, innerColumns},
	{-1, innerColumns},
	{8, allCells},
	{-8, allCells},
	{7, innerColumns},
	{-7, innerColumns},
	{9, innerColumns},
	{-9, innerColumns},
}

// Shift moves every bit in m one step along the direction.
func (d Direction) Shift(m uint64) uint64 {
	if d.shift > 0 {
		return m << uint(d.shift)
	}
	return m >> uint(-d.shift)
}

// Mask is the set of cells a run of opponent discs may occupy along d.
func (d Direction) Mask() uint64 {
	return d.mask
}

// Flips returns the opponent discs captured when player places a disc on
// the single bit placed.
func Flips(player, opponent, placed uint64) uint64 {
	var flipped uint64
	for _, d := range Directions {
		om := opponent & d.mask
		var run uint64
		x := d.Shift(placed)
		for x&om != 0 {
			run |= x
			x = d.Shift(x)
		}
		if x&player != 0 {
			flipped |= run
		}
	}
	return flipped
}

// ApplyMove plays m for the side to move on b. A pass only flips the turn.
// A placement that is illegal leaves b unmodified.
func ApplyMove(b Board, m move.Move) error {
	if m.IsPass() {
		b.SetTurn(b.Turn().Opposite())
		return nil
	}
	x, y := m.Coords()
	if b.Get(x, y) != Empty {
		return ErrAlreadyOccupied
	}
	black, white := b.Bits()
	player, opponent := black, white
	if b.Turn() == WhiteTurn {
		player, opponent = white, black
	}
	placed := uint64(1) << uint(y*8+x)
	f := Flips(player, opponent, placed)
	if f == 0 {
		return ErrNoCaptures
	}
	player |= f | placed
	opponent &^= f
	if b.Turn() == WhiteTurn {
		b.SetBits(opponent, player)
	} else {
		b.SetBits(player, opponent)
	}
	b.SetTurn(b.Turn().Opposite())
	return nil
}

// Reset restores the starting position with Black to move.
func Reset(b Board) {
	b.SetBits(StartBlack, StartWhite)
	b.SetTurn(BlackTurn)
}

// Count returns the number of discs of the given color. Counting Empty
// returns the number of empty cells.
func Count(b Board, t Tile) int {
	black, white := b.Bits()
	switch t {
	case Black:
		return bits.OnesCount64(black)
	case White:
		return bits.OnesCount64(white)
	}
	return 64 - bits.OnesCount64(black|white)
}

// CountBoth returns the number of discs on the board.
func CountBoth(b Board) int {
	black, white := b.Bits()
	return bits.OnesCount64(black | white)
}

// Discs returns the masks of the side to move and its opponent.
func Discs(b Board) (player, opponent uint64) {
	black, white := b.Bits()
	if b.Turn() == WhiteTurn {
		return white, black
	}
	return black, white
}

func cellBit(x, y int) uint64 {
	return uint64(1) << uint(y*8+x)
}

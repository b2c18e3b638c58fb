package board

// Tile is the content of a single cell.
type Tile uint8

const (
	Empty Tile = iota
	Black
	White
)

func (t Tile) String() string {
	switch t {
	case Black:
		return "X"
	case White:
		return "O"
	}
	return "."
}

// Turn is the side to move.
type Turn uint8

const (
	BlackTurn Turn = iota
	WhiteTurn
)

func (t Turn) Opposite() Turn {
	return t ^ 1
}

// Tile returns the disc color that belongs to the side.
func (t Turn) Tile() Tile {
	if t == BlackTurn {
		return Black
	}
	return White
}

func (t Turn) String() string {
	if t == BlackTurn {
		return "black"
	}
	return "white"
}

// TurnOf returns the side that owns the given disc color. It panics on Empty.
func TurnOf(t Tile) Turn {
	switch t {
	case Black:
		return BlackTurn
	case White:
		return WhiteTurn
	}
	panic("empty tile has no turn")
}

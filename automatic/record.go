package automatic

import (
	"errors"
	"fmt"
	"io"

	"github.com/domino14/remedios/move"
)

const (
	// RecordSize is the size of one game in the record file.
	RecordSize = 64
	maxMoves   = 60
	countsAt   = 62
)

var ErrBadRecord = errors.New("bad game record")

// GameRecord is a finished game: its moves in order, passes included, and
// the final disc counts.
type GameRecord struct {
	Moves []move.Move
	Black int
	White int
}

// MarshalBinary encodes up to 60 moves, fills to 62 bytes and appends the
// Black and White disc counts.
func (g *GameRecord) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, RecordSize)
	for i, m := range g.Moves {
		if i == maxMoves {
			break
		}
		buf = append(buf, m.Byte())
	}
	for len(buf) < countsAt {
		buf = append(buf, move.FillByte)
	}
	if g.Black < 0 || g.Black > 64 || g.White < 0 || g.White > 64 {
		return nil, fmt.Errorf("%w: counts %d/%d", ErrBadRecord, g.Black, g.White)
	}
	return append(buf, byte(g.Black), byte(g.White)), nil
}

func (g *GameRecord) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf("%w: %d bytes", ErrBadRecord, len(data))
	}
	g.Moves = g.Moves[:0]
	for _, v := range data[:countsAt] {
		if v == move.FillByte {
			break
		}
		m, err := move.FromByte(v)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBadRecord, err)
		}
		g.Moves = append(g.Moves, m)
	}
	g.Black = int(data[countsAt])
	g.White = int(data[countsAt+1])
	return nil
}

// Differential is Black's discs minus White's.
func (g *GameRecord) Differential() int {
	return g.Black - g.White
}

// ReadRecords decodes a whole record file.
func ReadRecords(r io.Reader) ([]GameRecord, error) {
	var recs []GameRecord
	buf := make([]byte, RecordSize)
	for {
		_, err := io.ReadFull(r, buf)
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return recs, fmt.Errorf("%w: truncated after %d games", ErrBadRecord, len(recs))
		}
		var g GameRecord
		if err := g.UnmarshalBinary(buf); err != nil {
			return recs, err
		}
		recs = append(recs, g)
	}
}

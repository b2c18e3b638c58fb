// Package book reads the binary opening book.
//
// The file is a forest of blocks. A block is an 8 byte big-endian record
// count followed by that many 24 byte records, sorted by move byte:
//
//	7 bytes padding | move byte | float64 score | uint64 successor offset
//
// The root block sits at offset 0 and holds the replies to the canonical
// first move, which itself is not stored. Scores are from Black's point of
// view. A successor offset of 0 means the line ends there.
package book

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/cache"
	"github.com/domino14/remedios/config"
	"github.com/domino14/remedios/move"
)

const (
	HeaderSize = 8
	RecordSize = 24

	// CanonicalX and CanonicalY are the book's first move, C4.
	CanonicalX = 2
	CanonicalY = 3

	// Blocks with at most ExhaustiveLimit records are scanned fully;
	// larger ones are sampled MaxSamples times.
	ExhaustiveLimit = 4
	MaxSamples      = 10
)

var (
	ErrBookFileMissing = errors.New("opening book file missing")
	ErrMalformedBlock  = errors.New("malformed book block")
)

type Record struct {
	Move  byte
	Score float64
	Next  uint64
}

// Book walks the shared, read-only book bytes along one game.
type Book struct {
	data []byte
	rng  *frand.RNG

	cur       uint64
	opening   bool
	runout    bool
	transform Transform
}

// New creates a book over data. data is not copied or modified, so the
// same slice may back books in many goroutines.
func New(data []byte, rng *frand.RNG) *Book {
	if rng == nil {
		rng = frand.New()
	}
	b := &Book{data: data, rng: rng}
	b.Reset()
	return b
}

// Load returns a book over the file named by the book-path setting. The
// bytes are read once per process. A missing or unreadable file yields a
// book that is always exhausted.
func Load(cfg *config.Config, rng *frand.RNG) *Book {
	path := cfg.GetString(config.ConfigBookPath)
	obj, err := cache.Load(cfg, CacheKey(path), loadBookBytes)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("opening-book-unavailable")
		return New(nil, rng)
	}
	return New(obj.([]byte), rng)
}

// CacheKey names the cached bytes of the book at path.
func CacheKey(path string) string {
	return "book:" + path
}

func loadBookBytes(cfg *config.Config, key string) (any, error) {
	path := cfg.GetString(config.ConfigBookPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBookFileMissing, path)
		}
		return nil, err
	}
	log.Info().Str("path", path).Int("bytes", len(data)).Msg("opening-book-loaded")
	return data, nil
}

// Reset prepares the book for a new game.
func (b *Book) Reset() {
	b.cur = 0
	b.opening = true
	b.runout = len(b.data) < HeaderSize
	b.transform = IdentityTransform()
}

// Exhausted reports whether the book has nothing more to offer this game.
func (b *Book) Exhausted() bool {
	return b.runout
}

func (b *Book) Transform() Transform {
	return b.transform
}

// block returns the record count of the block at off.
func (b *Book) block(off uint64) (int, error) {
	if off > uint64(len(b.data)) || uint64(len(b.data))-off < HeaderSize {
		return 0, fmt.Errorf("%w: header at %d", ErrMalformedBlock, off)
	}
	n := binary.BigEndian.Uint64(b.data[off:])
	avail := (uint64(len(b.data)) - off - HeaderSize) / RecordSize
	if n > avail {
		return 0, fmt.Errorf("%w: %d records at %d, room for %d", ErrMalformedBlock, n, off, avail)
	}
	return int(n), nil
}

func (b *Book) record(off uint64, i int) Record {
	p := off + HeaderSize + uint64(i)*RecordSize
	r := b.data[p : p+RecordSize]
	return Record{
		Move:  r[7],
		Score: math.Float64frombits(binary.BigEndian.Uint64(r[8:16])),
		Next:  binary.BigEndian.Uint64(r[16:24]),
	}
}

// Records returns the records of the block the book currently points at.
func (b *Book) Records() []Record {
	if b.runout {
		return nil
	}
	n, err := b.block(b.cur)
	if err != nil {
		return nil
	}
	return lo.Times(n, func(i int) Record { return b.record(b.cur, i) })
}

// lowerBound is the first index in the block whose move byte is >= v.
func (b *Book) lowerBound(off uint64, n int, v byte) int {
	return sort.Search(n, func(i int) bool { return b.record(off, i).Move >= v })
}

// upperBound is the first index in the block whose move byte is > v.
func (b *Book) upperBound(off uint64, n int, v byte) int {
	return sort.Search(n, func(i int) bool { return b.record(off, i).Move > v })
}

func (b *Book) exhaust(reason string) bool {
	if !b.runout {
		log.Debug().Str("reason", reason).Msg("opening-book-runout")
	}
	b.runout = true
	return false
}

// follow moves to a successor block and reports whether it has records.
func (b *Book) follow(next uint64) bool {
	if next == 0 {
		return b.exhaust("line-ends")
	}
	n, err := b.block(next)
	if err != nil {
		log.Warn().Err(err).Msg("opening-book-corrupt")
		return b.exhaust("corrupt")
	}
	if n == 0 {
		return b.exhaust("empty-block")
	}
	b.cur = next
	return true
}

// Go advances the book by a move played on the real board, by either side.
// It reports whether the book still has data.
func (b *Book) Go(m move.Move) bool {
	if b.runout {
		return false
	}
	if m.IsPass() {
		return b.exhaust("pass")
	}
	if b.opening {
		b.opening = false
		x, y := m.Coords()
		if !b.transform.Init(x, y) {
			return b.exhaust("unknown-opening")
		}
		// The first move is implied; the root block holds its replies.
		b.cur = 0
		n, err := b.block(0)
		if err != nil || n == 0 {
			return b.exhaust("empty-root")
		}
		return true
	}
	n, err := b.block(b.cur)
	if err != nil {
		log.Warn().Err(err).Msg("opening-book-corrupt")
		return b.exhaust("corrupt")
	}
	v := b.transform.Get(m.Byte())
	first, last := b.lowerBound(b.cur, n, v), b.upperBound(b.cur, n, v)
	if first == last {
		return b.exhaust("out-of-book")
	}
	// Several sub-lines may share a move byte; follow the richest one.
	best, bestSize := first, -1
	for i := first; i < last; i++ {
		next := b.record(b.cur, i).Next
		size := 0
		if next != 0 {
			var err error
			if size, err = b.block(next); err != nil {
				log.Warn().Err(err).Int("record", i).Msg("opening-book-skip-successor")
				continue
			}
		}
		if size > bestSize {
			best, bestSize = i, size
		}
	}
	return b.follow(b.record(b.cur, best).Next)
}

// Gen returns the book's move for turn given the move just played, nil at
// the start of the game. hasMore reports whether the book still has data
// after the returned move; ok is false once the book is exhausted.
func (b *Book) Gen(turn board.Turn, last *move.Move) (m move.Move, hasMore bool, ok bool) {
	if b.runout {
		return move.Move{}, false, false
	}
	if last == nil {
		if !b.opening {
			// A new game was started without Reset.
			b.Reset()
		}
		b.opening = false
		b.transform = IdentityTransform()
		b.cur = 0
		n, err := b.block(0)
		hasMore := err == nil && n > 0
		if !hasMore {
			b.exhaust("empty-root")
		}
		return move.NewPlaceMove(CanonicalX, CanonicalY), hasMore, true
	}
	if !b.Go(*last) {
		return move.Move{}, false, false
	}
	n, err := b.block(b.cur)
	if err != nil || n == 0 {
		b.exhaust("empty-block")
		return move.Move{}, false, false
	}
	idx := b.pick(turn, n)
	rec := b.record(b.cur, idx)
	if rec.Move == move.PassByte || !move.ValidPlaceByte(rec.Move) {
		b.exhaust("terminator")
		return move.Move{}, false, false
	}
	reply, err := move.FromByte(b.transform.Inv(rec.Move))
	if err != nil {
		b.exhaust("bad-move-byte")
		return move.Move{}, false, false
	}
	log.Debug().
		Str("move", reply.String()).
		Float64("score", rec.Score).
		Int("candidates", n).
		Msg("opening-book-move")
	return reply, b.follow(rec.Next), true
}

// pick chooses the index of the most favorable record for turn among n.
func (b *Book) pick(turn board.Turn, n int) int {
	better := func(a, c float64) bool {
		if turn == board.BlackTurn {
			return a > c
		}
		return a < c
	}
	var candidates []int
	if n <= ExhaustiveLimit {
		candidates = lo.Range(n)
	} else {
		candidates = lo.Times(MaxSamples, func(int) int { return b.rng.Intn(n) })
	}
	best := candidates[0]
	bestScore := b.record(b.cur, best).Score
	for _, i := range candidates[1:] {
		if s := b.record(b.cur, i).Score; better(s, bestScore) {
			best, bestScore = i, s
		}
	}
	return best
}

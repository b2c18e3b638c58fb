package strategy

import (
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/remedios/alphabeta"
	"github.com/domino14/remedios/board"
	"github.com/domino14/remedios/book"
	"github.com/domino14/remedios/config"
	"github.com/domino14/remedios/endgame"
	"github.com/domino14/remedios/move"
	"github.com/domino14/remedios/movegen"
)

// State is the phase of MainStrategy. It only ever moves forward.
type State uint8

const (
	StateBook State = iota
	StateSearch
	StateEnding
	StateRandom
)

func (s State) String() string {
	switch s {
	case StateBook:
		return "book"
	case StateSearch:
		return "search"
	case StateEnding:
		return "ending"
	}
	return "random"
}

type Options struct {
	SearchDepth int
	// EndingTurns is the number of empty cells at which the exact solver
	// takes over.
	EndingTurns    int
	EndingOpt      bool
	MemoryFraction float64
	// EndingNodeBudget overrides the memory derived node budget when > 0.
	EndingNodeBudget int
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SearchDepth:    cfg.GetInt(config.ConfigSearchDepth),
		EndingTurns:    cfg.GetInt(config.ConfigEndingTurns),
		EndingOpt:      cfg.GetBool(config.ConfigEndingOpt),
		MemoryFraction: cfg.GetFloat64(config.ConfigEndingMemoryFraction),
	}
}

// MainStrategy plays from the opening book, then by alpha-beta search,
// then by exact solving, and falls back to random legal moves.
type MainStrategy struct {
	state       State
	endingTurns int

	book     *book.Book
	searcher *alphabeta.Searcher
	solver   *endgame.Solver
	random   *RandomStrategy
}

func NewMainStrategy(cfg *config.Config, rng *frand.RNG) *MainStrategy {
	return NewMainStrategyWithBook(book.Load(cfg, rng), OptionsFromConfig(cfg), rng)
}

func NewMainStrategyWithBook(bk *book.Book, opts Options, rng *frand.RNG) *MainStrategy {
	if rng == nil {
		rng = frand.New()
	}
	if bk == nil {
		bk = book.New(nil, rng)
	}
	if opts.EndingTurns <= 0 {
		opts.EndingTurns = 10
	}
	solver := endgame.NewSolver(opts.EndingOpt, opts.MemoryFraction)
	if opts.EndingNodeBudget > 0 {
		solver.SetNodeBudget(opts.EndingNodeBudget)
	}
	return &MainStrategy{
		state:       StateBook,
		endingTurns: opts.EndingTurns,
		book:        bk,
		searcher:    alphabeta.NewSearcher(opts.SearchDepth),
		solver:      solver,
		random:      NewRandomStrategy(rng),
	}
}

func (s *MainStrategy) State() State {
	return s.state
}

func (s *MainStrategy) Searcher() *alphabeta.Searcher {
	return s.searcher
}

func (s *MainStrategy) Solver() *endgame.Solver {
	return s.solver
}

func (s *MainStrategy) SetEndingTurns(n int) {
	if n > 0 {
		s.endingTurns = n
	}
}

func (s *MainStrategy) Reset() {
	s.state = StateBook
	s.book.Reset()
	s.searcher.Reset()
	s.solver.Reset()
	s.random.Reset()
}

func (s *MainStrategy) advance(to State) {
	if to > s.state {
		log.Debug().Str("from", s.state.String()).Str("to", to.String()).Msg("strategy-state")
		s.state = to
	}
}

func legal(b board.Board, m move.Move) bool {
	if m.IsPass() {
		return !movegen.HasMoves(b, b.Turn())
	}
	return movegen.Putable(b, m.X(), m.Y())
}

// Play chooses a move. The budget is only logged; depth and the ending
// threshold are fixed by configuration.
func (s *MainStrategy) Play(b board.Board, last *move.Move, budget time.Duration) move.Move {
	log.Debug().Str("state", s.state.String()).Dur("budget", budget).Msg("strategy-play")

	if s.state == StateBook {
		m, hasMore, ok := s.book.Gen(b.Turn(), last)
		switch {
		case ok && legal(b, m):
			if !hasMore {
				s.advance(StateSearch)
			}
			return m
		case ok:
			log.Warn().Str("move", m.String()).Msg("opening-book-move-illegal")
		}
		s.advance(StateSearch)
	}

	if s.state == StateSearch {
		if board.CountBoth(b) < 64-s.endingTurns {
			return s.searcher.Search(b)
		}
		s.advance(StateEnding)
	}

	if s.state == StateEnding {
		m, err := s.solver.Search(b, b.Turn(), last)
		if err == nil && legal(b, m) {
			return m
		}
		log.Warn().Err(err).Str("move", m.String()).Msg("endgame-solver-failed")
		s.advance(StateRandom)
	}

	return s.random.Play(b, last, budget)
}

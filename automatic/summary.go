package automatic

import (
	"fmt"
	"io"
	"slices"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/cespare/xxhash"
	"gopkg.in/yaml.v3"

	"github.com/domino14/remedios/stats"
)

const histogramBins = 15

// Summary aggregates the results of a batch of games.
type Summary struct {
	Games      int
	BlackWins  int
	WhiteWins  int
	Ties       int
	PlayerWins [2]int

	differential stats.Statistic
	diffs        []float64
	seen         map[uint64]struct{}
}

func NewSummary() *Summary {
	return &Summary{seen: map[uint64]struct{}{}}
}

func (s *Summary) Add(res *Result) {
	rec := res.Record
	s.Games++
	d := rec.Differential()
	switch {
	case d > 0:
		s.BlackWins++
		s.PlayerWins[res.BlackPlayer]++
	case d < 0:
		s.WhiteWins++
		s.PlayerWins[1-res.BlackPlayer]++
	default:
		s.Ties++
	}
	s.differential.Push(float64(d))
	s.diffs = append(s.diffs, float64(d))
	if bts, err := rec.MarshalBinary(); err == nil {
		s.seen[xxhash.Sum64(bts)] = struct{}{}
	}
}

// UniqueGames is the number of distinct move sequences seen.
func (s *Summary) UniqueGames() int {
	return len(s.seen)
}

// BlackWinRate returns Black's score rate, ties as half, with the half
// width of its 95% interval.
func (s *Summary) BlackWinRate() (float64, float64) {
	return stats.WinRateInterval(float64(s.BlackWins)+float64(s.Ties)/2, s.Games, 95)
}

type summaryDoc struct {
	Games        int     `yaml:"games"`
	UniqueGames  int     `yaml:"unique_games"`
	BlackWins    int     `yaml:"black_wins"`
	WhiteWins    int     `yaml:"white_wins"`
	Ties         int     `yaml:"ties"`
	Player1Wins  int     `yaml:"player1_wins"`
	Player2Wins  int     `yaml:"player2_wins"`
	BlackRate    float64 `yaml:"black_rate"`
	BlackRateCI  float64 `yaml:"black_rate_ci95"`
	MeanDiff     float64 `yaml:"mean_differential"`
	StdevDiff    float64 `yaml:"stdev_differential"`
	StdErrorDiff float64 `yaml:"stderr_differential"`
}

func (s *Summary) YAML() ([]byte, error) {
	rate, ci := s.BlackWinRate()
	return yaml.Marshal(summaryDoc{
		Games:        s.Games,
		UniqueGames:  s.UniqueGames(),
		BlackWins:    s.BlackWins,
		WhiteWins:    s.WhiteWins,
		Ties:         s.Ties,
		Player1Wins:  s.PlayerWins[0],
		Player2Wins:  s.PlayerWins[1],
		BlackRate:    rate,
		BlackRateCI:  ci,
		MeanDiff:     s.differential.Mean(),
		StdevDiff:    s.differential.Stdev(),
		StdErrorDiff: s.differential.StandardError(),
	})
}

// Histogram prints the distribution of final disc differentials.
func (s *Summary) Histogram(w io.Writer) error {
	if len(s.diffs) == 0 {
		_, err := fmt.Fprintln(w, "no games")
		return err
	}
	if slices.Min(s.diffs) == slices.Max(s.diffs) {
		_, err := fmt.Fprintf(w, "%d games, all with differential %v\n", len(s.diffs), s.diffs[0])
		return err
	}
	h := histogram.Hist(histogramBins, s.diffs)
	return histogram.Fprint(w, h, histogram.Linear(40))
}

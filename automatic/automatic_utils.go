package automatic

// Self-play data collection. Records computer vs computer games.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/domino14/remedios/config"
	"github.com/domino14/remedios/strategy"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// StrategyFactory builds a fresh player for one game. Both players of a
// game share the game's RNG.
type StrategyFactory func(rng *frand.RNG) strategy.Strategy

type job struct {
	id int
}

// StartCompVComp plays numGames games on threads workers and appends every
// finished game to recordPath. numGames of 0 plays until ctx is cancelled,
// or one game per seed when a seed file is configured. An empty recordPath
// records nothing.
func StartCompVComp(ctx context.Context, cfg *config.Config, numGames, threads int,
	recordPath string, newStrategy StrategyFactory) (*Summary, error) {

	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	if threads < 1 {
		threads = 1
	}

	var seeds [][32]byte
	if sf := cfg.GetString(config.ConfigSeedFile); sf != "" {
		var err error
		seeds, err = LoadSeeds(sf)
		if err != nil {
			return nil, err
		}
		if len(seeds) == 0 {
			return nil, fmt.Errorf("seed file %v has no seeds", sf)
		}
		if numGames == 0 || numGames > len(seeds) {
			numGames = len(seeds)
		}
		log.Info().Int("seeds", len(seeds)).Str("file", sf).Msg("loaded-seeds")
	}

	var recordFile *os.File
	if recordPath != "" {
		var err error
		recordFile, err = os.OpenFile(recordPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		defer recordFile.Close()
	}

	moveTime := cfg.GetDuration(config.ConfigMoveTime)
	log.Info().Int("games", numGames).Int("threads", threads).Str("record", recordPath).Msg("starting-cvc")

	CVCCounter.Set(0)
	jobs := make(chan job, 100)
	results := make(chan *Result, 100)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; numGames == 0 || i < numGames; i++ {
			select {
			case jobs <- job{id: i}:
			case <-gctx.Done():
				log.Info().Msg("got-stop-signal")
				return nil
			}
		}
		log.Debug().Int("games", numGames).Msg("finished-queueing")
		return nil
	})

	for t := 0; t < threads; t++ {
		g.Go(func() error {
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for j := range jobs {
				if gctx.Err() != nil {
					return nil
				}
				var rng *frand.RNG
				if seeds != nil {
					rng = SeedRNG(seeds[j.id])
				} else {
					rng = frand.New()
				}
				runner := NewGameRunner(newStrategy(rng), newStrategy(rng), moveTime)
				res, err := runner.PlayGame(rng)
				if err != nil {
					return fmt.Errorf("game %d: %w", j.id, err)
				}
				CVCCounter.Add(1)
				results <- res
			}
			return nil
		})
	}

	summary := NewSummary()
	writer := errgroup.Group{}
	writer.Go(func() error {
		var werr error
		for res := range results {
			summary.Add(res)
			if recordFile != nil && werr == nil {
				werr = appendRecord(recordFile, res.Record)
			}
			if summary.Games%10 == 0 {
				log.Info().Int("games", summary.Games).Msg("games-played")
			}
		}
		return werr
	})

	err := g.Wait()
	close(results)
	if werr := writer.Wait(); werr != nil && err == nil {
		err = werr
	}
	log.Info().Int("games", summary.Games).Msg("all-games-finished")
	return summary, err
}

func appendRecord(f *os.File, rec *GameRecord) error {
	bts, err := rec.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = f.Write(bts)
	return err
}

// selfplay plays the engine against itself and records the games.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/remedios/automatic"
	"github.com/domino14/remedios/config"
	"github.com/domino14/remedios/strategy"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(filepath.Dir(ex))

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := automatic.StartCompVComp(ctx, cfg,
		cfg.GetInt(config.ConfigGames),
		cfg.GetInt(config.ConfigThreads),
		cfg.GetString(config.ConfigRecordPath),
		func(rng *frand.RNG) strategy.Strategy {
			return strategy.NewMainStrategy(cfg, rng)
		})
	if err != nil {
		log.Error().Err(err).Msg("selfplay-failed")
	}
	if summary == nil {
		os.Exit(1)
	}

	doc, yerr := summary.YAML()
	if yerr != nil {
		log.Fatal().Err(yerr).Msg("summary-yaml")
	}
	os.Stdout.Write(doc)
	if herr := summary.Histogram(os.Stdout); herr != nil {
		log.Error().Err(herr).Msg("summary-histogram")
	}
	if p := cfg.GetString(config.ConfigSummaryPath); p != "" {
		if werr := os.WriteFile(p, doc, 0o644); werr != nil {
			log.Fatal().Err(werr).Str("path", p).Msg("write-summary")
		}
		log.Info().Str("path", p).Msg("wrote-summary")
	}
	if err != nil {
		os.Exit(1)
	}
}

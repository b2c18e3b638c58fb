// make_book builds the opening book from a self-play record file.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/remedios/automatic"
	"github.com/domino14/remedios/book"
	"github.com/domino14/remedios/cache"
	"github.com/domino14/remedios/config"
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
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	recordPath := cfg.GetString(config.ConfigRecordPath)
	bookPath := cfg.GetString(config.ConfigBookPath)

	f, err := os.Open(recordPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", recordPath).Msg("open-records")
	}
	recs, err := automatic.ReadRecords(bufio.NewReader(f))
	f.Close()
	if err != nil {
		// Keep what was readable; a crashed selfplay run leaves a partial record.
		log.Warn().Err(err).Int("games", len(recs)).Msg("read-records")
	}

	bl := book.NewBuilder(cfg.GetInt(config.ConfigBookMinGames))
	depth := cfg.GetInt(config.ConfigBookDepth)
	skipped := 0
	for _, r := range recs {
		if !bl.AddGame(r.Moves, r.Black, r.White, depth) {
			skipped++
		}
	}

	out, err := os.Create(bookPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", bookPath).Msg("create-book")
	}
	w := bufio.NewWriter(out)
	n, err := bl.WriteTo(w)
	if err == nil {
		err = w.Flush()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatal().Err(err).Str("path", bookPath).Msg("write-book")
	}
	cache.Evict(book.CacheKey(bookPath))
	log.Info().
		Int("games", len(recs)).
		Int("skipped", skipped).
		Int("lines", bl.Lines()).
		Int64("bytes", n).
		Str("path", bookPath).
		Msg("book-written")
}

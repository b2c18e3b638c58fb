package config

import (
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigBookPath             = "book-path"
	ConfigRecordPath           = "record-path"
	ConfigSummaryPath          = "summary-path"
	ConfigSeedFile             = "seed-file"
	ConfigSearchDepth          = "search-depth"
	ConfigEndingTurns          = "ending-turns"
	ConfigEndingOpt            = "ending-opt"
	ConfigEndingMemoryFraction = "ending-memory-fraction"
	ConfigMoveTime             = "move-time"
	ConfigThreads              = "threads"
	ConfigGames                = "games"
	ConfigBookDepth            = "book-depth"
	ConfigBookMinGames         = "book-min-games"
	ConfigDebug                = "debug"
	ConfigCPUProfile           = "cpu-profile"
)

// paths that are resolved against the executable directory when relative.
var pathKeys = []string{ConfigBookPath, ConfigRecordPath, ConfigSummaryPath, ConfigSeedFile}

type Config struct {
	*viper.Viper
}

func DefaultConfig() *Config {
	c := &Config{viper.New()}
	for k, v := range defaults() {
		c.SetDefault(k, v)
	}
	return c
}

func defaults() map[string]any {
	return map[string]any{
		ConfigBookPath:             "./data/opening.db",
		ConfigRecordPath:           "./data/record.db",
		ConfigSummaryPath:          "",
		ConfigSeedFile:             "",
		ConfigSearchDepth:          6,
		ConfigEndingTurns:          10,
		ConfigEndingOpt:            true,
		ConfigEndingMemoryFraction: 0.25,
		ConfigMoveTime:             60 * time.Second,
		ConfigThreads:              runtime.NumCPU(),
		ConfigGames:                0,
		ConfigBookDepth:            20,
		ConfigBookMinGames:         1,
		ConfigDebug:                false,
		ConfigCPUProfile:           "",
	}
}

// Load parses command line flags and REMEDIOS_ environment variables on
// top of the defaults. Flags win over the environment.
func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("remedios", pflag.ContinueOnError)
	fs.String(ConfigBookPath, c.GetString(ConfigBookPath), "opening book file")
	fs.String(ConfigRecordPath, c.GetString(ConfigRecordPath), "self-play record file (64 bytes per game)")
	fs.String(ConfigSummaryPath, c.GetString(ConfigSummaryPath), "where to write the self-play summary as YAML")
	fs.String(ConfigSeedFile, c.GetString(ConfigSeedFile), "file of base64 seeds for reproducible self-play")
	fs.Int(ConfigSearchDepth, c.GetInt(ConfigSearchDepth), "alpha-beta search depth in plies")
	fs.Int(ConfigEndingTurns, c.GetInt(ConfigEndingTurns), "switch to the exact solver with this many empty cells left")
	fs.Bool(ConfigEndingOpt, c.GetBool(ConfigEndingOpt), "assume a perfect opponent when pruning the endgame tree")
	fs.Float64(ConfigEndingMemoryFraction, c.GetFloat64(ConfigEndingMemoryFraction), "fraction of system memory the endgame tree may use")
	fs.Duration(ConfigMoveTime, c.GetDuration(ConfigMoveTime), "time budget per move (informational)")
	fs.Int(ConfigThreads, c.GetInt(ConfigThreads), "number of self-play workers")
	fs.Int(ConfigGames, c.GetInt(ConfigGames), "number of self-play games, 0 to run until interrupted")
	fs.Int(ConfigBookDepth, c.GetInt(ConfigBookDepth), "plies per game to put into the book")
	fs.Int(ConfigBookMinGames, c.GetInt(ConfigBookMinGames), "minimum games through a position to keep it in the book")
	fs.Bool(ConfigDebug, c.GetBool(ConfigDebug), "debug logging on")
	fs.String(ConfigCPUProfile, c.GetString(ConfigCPUProfile), "write a cpu profile to this file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	c.SetEnvPrefix("remedios")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return c.BindPFlags(fs)
}

// AdjustRelativePaths rewrites relative data paths so they are relative to
// basePath, usually the directory of the executable.
func (c *Config) AdjustRelativePaths(basePath string) {
	for _, k := range pathKeys {
		p := c.GetString(k)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(k, filepath.Join(basePath, p))
	}
}

// SanitizedSettings returns all settings, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}

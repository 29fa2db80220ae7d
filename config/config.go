// Package config loads the settings for the snek binaries from an optional
// .env file, SNEK_* environment variables and command line flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/brensch/gridsnake/game"
	"github.com/brensch/gridsnake/logging"
)

const envPrefix = "SNEK_"

var ErrInvalidConfig = errors.New("invalid config")

// ClockKind picks the tick source for the terminal game.
type ClockKind string

const (
	// ClockTimer drives ticks from a wall-clock timer inside a Session.
	ClockTimer ClockKind = "timer"
	// ClockFrame accumulates elapsed frame time and steps the machine.
	ClockFrame ClockKind = "frame"
)

type Config struct {
	GridSize  int32
	Speed     game.Speed
	Clock     ClockKind
	Seed      int64
	Record    bool
	RecordDir string
	LogFile   string
	LogLevel  string
	LogFormat logging.Format
	Bell      bool
}

func Default() Config {
	return Config{
		GridSize:  game.DefaultSize,
		Speed:     game.SpeedNormal,
		Clock:     ClockTimer,
		RecordDir: "traces",
		LogFile:   "snek.log",
		LogLevel:  "info",
		LogFormat: logging.FormatPretty,
		Bell:      true,
	}
}

// Load reads the configuration for a binary invoked with args (excluding the
// program name). A missing .env file is not an error.
func Load(name string, args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return parse(name, args, os.Getenv)
}

func parse(name string, args []string, getenv func(string) string) (Config, error) {
	def := Default()
	env := envReader{getenv: getenv}

	gridSize := env.int("GRID_SIZE", int(def.GridSize))
	speed := env.str("SPEED", def.Speed.String())
	clk := env.str("CLOCK", string(def.Clock))
	seed := env.int64("SEED", def.Seed)
	record := env.bool("RECORD", def.Record)
	recordDir := env.str("RECORD_DIR", def.RecordDir)
	logFile := env.str("LOG_FILE", def.LogFile)
	logLevel := env.str("LOG_LEVEL", def.LogLevel)
	logFormat := env.str("LOG_FORMAT", string(def.LogFormat))
	bell := env.bool("BELL", def.Bell)
	if env.err != nil {
		return Config{}, env.err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&gridSize, "grid", gridSize, "Board width and height in cells")
	fs.StringVar(&speed, "speed", speed, "Tick speed: slow, normal or fast")
	fs.StringVar(&clk, "clock", clk, "Tick source: timer or frame")
	fs.Int64Var(&seed, "seed", seed, "Food placement seed (0 picks one from the clock)")
	fs.BoolVar(&record, "record", record, "Write a parquet trace of every game")
	fs.StringVar(&recordDir, "record-dir", recordDir, "Directory for trace files")
	fs.StringVar(&logFile, "log-file", logFile, "Log file path (empty disables logging)")
	fs.StringVar(&logLevel, "log-level", logLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&logFormat, "log-format", logFormat, "Log format: pretty, json or text")
	fs.BoolVar(&bell, "bell", bell, "Ring the terminal bell on food and crashes")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg := Config{
		GridSize:  int32(gridSize),
		Clock:     ClockKind(strings.ToLower(clk)),
		Seed:      seed,
		Record:    record,
		RecordDir: recordDir,
		LogFile:   logFile,
		LogLevel:  logLevel,
		LogFormat: logging.Format(strings.ToLower(logFormat)),
		Bell:      bell,
	}
	s, ok := game.ParseSpeed(strings.ToLower(speed))
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown speed %q", ErrInvalidConfig, speed)
	}
	cfg.Speed = s
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.GridSize < 2 || c.GridSize > 64 {
		return fmt.Errorf("%w: grid size %d out of range 2..64", ErrInvalidConfig, c.GridSize)
	}
	if !c.Speed.Valid() {
		return fmt.Errorf("%w: speed %d", ErrInvalidConfig, c.Speed)
	}
	switch c.Clock {
	case ClockTimer, ClockFrame:
	default:
		return fmt.Errorf("%w: unknown clock %q", ErrInvalidConfig, c.Clock)
	}
	switch c.LogFormat {
	case logging.FormatPretty, logging.FormatJSON, logging.FormatText:
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Record && c.RecordDir == "" {
		return fmt.Errorf("%w: recording needs a record dir", ErrInvalidConfig)
	}
	return nil
}

// envReader looks up SNEK_ prefixed variables, keeping the first parse error.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) str(key, def string) string {
	if v := e.getenv(envPrefix + key); v != "" {
		return v
	}
	return def
}

func (e *envReader) int(key string, def int) int {
	return int(e.int64(key, int64(def)))
}

func (e *envReader) int64(key string, def int64) int64 {
	v := e.getenv(envPrefix + key)
	if v == "" {
		return def
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return i
}

func (e *envReader) bool(key string, def bool) bool {
	v := e.getenv(envPrefix + key)
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	e.fail(key, v, strconv.ErrSyntax)
	return def
}

func (e *envReader) fail(key, val string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("%w: %s%s=%q: %w", ErrInvalidConfig, envPrefix, key, val, err)
	}
}

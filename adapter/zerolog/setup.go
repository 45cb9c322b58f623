package zerologadapter

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/logroute"
)

// Config is an explicit, code-first configuration for a zerolog-backed Logger.
type Config struct {
	Writer            io.Writer // default: os.Stdout
	MinLevel          logroute.Level
	Console           bool   // pretty console output instead of JSON
	ConsoleTimeFormat string // only used if Console; default time.RFC3339Nano
	Caller            bool
	CallerSkip        int // default 5

	// Repository the logger routes to; a fresh one is created when nil.
	Repository *logroute.Repository
}

// NewAdapter builds the zerolog adapter described by cfg.
func NewAdapter(cfg Config) *Adapter {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	if cfg.Caller && cfg.CallerSkip <= 0 {
		cfg.CallerSkip = 5
	}

	// Diagnostics may be written from many dispatching goroutines at once.
	w = zerolog.SyncWriter(w)

	var zl zerolog.Logger
	if cfg.Console {
		// The console writer reads the timestamp column from "ts", the key Log writes.
		zerolog.TimestampFieldName = "ts"
		cw := zerolog.ConsoleWriter{Out: w}
		cw.TimeFormat = cfg.ConsoleTimeFormat
		if cw.TimeFormat == "" {
			cw.TimeFormat = time.RFC3339Nano
		}
		// Hide the caller column instead of printing "<nil>".
		if !cfg.Caller {
			cw.PartsExclude = append(cw.PartsExclude, zerolog.CallerFieldName)
		}
		zl = zerolog.New(cw)
	} else {
		zl = zerolog.New(w)
	}
	if cfg.Caller {
		zl = zl.With().CallerWithSkipFrameCount(cfg.CallerSkip).Logger()
	}

	ad := New(zl)
	ad.SetMinLevel(cfg.MinLevel)
	return ad
}

// Use builds a zerolog-backed Logger from cfg.
func Use(cfg Config) (*logroute.Logger, error) {
	return logroute.NewBuilder().
		WithAdapter(NewAdapter(cfg)).
		WithMinLevel(cfg.MinLevel).
		WithRepository(cfg.Repository).
		Build()
}

package slogadapter

import (
	"io"
	"log/slog"
	"os"

	"github.com/trickstertwo/logroute"
)

// Format selects the slog handler format.
type Format uint8

const (
	FormatJSON Format = iota + 1
	FormatText
)

// Config is an explicit, code-first configuration for a slog-backed Logger.
type Config struct {
	Writer             io.Writer            // default: os.Stdout
	MinLevel           logroute.Level       // applied to both the Logger and the handler
	Format             Format               // JSON (default) or Text
	HandlerOptions     *slog.HandlerOptions // optional; Level is managed through a LevelVar
	TimestampFieldName string               // default "ts"

	// Repository the logger routes to; a fresh one is created when nil.
	Repository *logroute.Repository
}

// NewAdapter builds the slog adapter described by cfg.
func NewAdapter(cfg Config) *SlogAdapter {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	var opts slog.HandlerOptions
	if cfg.HandlerOptions != nil {
		opts = *cfg.HandlerOptions
	}
	lv := new(slog.LevelVar)
	opts.Level = lv

	var h slog.Handler
	if cfg.Format == FormatText {
		h = slog.NewTextHandler(w, &opts)
	} else {
		h = slog.NewJSONHandler(w, &opts)
	}
	ad := NewWithTimestampKey(slog.New(h), lv, cfg.TimestampFieldName)
	ad.SetMinLevel(cfg.MinLevel)
	return ad
}

// Use builds a slog-backed Logger from cfg.
func Use(cfg Config) (*logroute.Logger, error) {
	return logroute.NewBuilder().
		WithAdapter(NewAdapter(cfg)).
		WithMinLevel(cfg.MinLevel).
		WithRepository(cfg.Repository).
		Build()
}

package zapadapter

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trickstertwo/logroute"
)

// Config is an explicit, code-first configuration for a zap-backed Logger.
type Config struct {
	Writer             io.Writer // default: os.Stdout
	MinLevel           logroute.Level
	Console            bool                  // console encoder instead of JSON
	EncoderConfig      zapcore.EncoderConfig // if zero, a sensible default is used
	Caller             bool
	CallerSkip         int    // default 2
	TimestampFieldName string // default "ts"

	// Repository the logger routes to; a fresh one is created when nil.
	Repository *logroute.Repository
}

// NewAdapter builds the zap adapter described by cfg.
func NewAdapter(cfg Config) *Adapter {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	if cfg.Caller && cfg.CallerSkip <= 0 {
		cfg.CallerSkip = 2
	}

	encCfg := cfg.EncoderConfig
	if encCfg.LevelKey == "" && encCfg.MessageKey == "" && encCfg.EncodeTime == nil {
		encCfg = zapcore.EncoderConfig{
			LevelKey:       "level",
			MessageKey:     "message",
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			CallerKey:      "caller",
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}
	}
	// The adapter writes the authoritative timestamp itself.
	encCfg.TimeKey = ""

	var enc zapcore.Encoder
	if cfg.Console {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	al := zap.NewAtomicLevel()
	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), al)

	opts := []zap.Option{zap.AddStacktrace(zapcore.FatalLevel + 1)}
	if cfg.Caller {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(cfg.CallerSkip))
	}

	ad := NewWithTimestampKey(zap.New(core, opts...), &al, cfg.TimestampFieldName)
	ad.SetMinLevel(cfg.MinLevel)
	return ad
}

// Use builds a zap-backed Logger from cfg. It binds the logger to
// xclock.Default() through its repository unless cfg.Repository says otherwise.
func Use(cfg Config) (*logroute.Logger, error) {
	return logroute.NewBuilder().
		WithAdapter(NewAdapter(cfg)).
		WithMinLevel(cfg.MinLevel).
		WithRepository(cfg.Repository).
		Build()
}

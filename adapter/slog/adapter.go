package slogadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/trickstertwo/logroute"
)

// Extra slog levels for the logroute scale; slog itself stops at Error.
const (
	LevelTrace slog.Level = slog.LevelDebug - 4
	LevelFatal slog.Level = slog.LevelError + 4
	// levelOff sits above every level the adapter writes.
	levelOff slog.Level = LevelFatal + 4
)

// SlogAdapter adapts logroute to the Go slog API (Adapter Strategy).
// It builds slog.Attrs directly and uses LogAttrs.
type SlogAdapter struct {
	l     *slog.Logger
	lv    *slog.LevelVar // optional, enables SetMinLevel
	tsKey string
	bound []logroute.Field
}

func New(l *slog.Logger) *SlogAdapter {
	return NewWithTimestampKey(l, nil, "")
}

// NewWithTimestampKey wires an optional LevelVar and timestamp key (default "ts").
func NewWithTimestampKey(l *slog.Logger, lv *slog.LevelVar, tsKey string) *SlogAdapter {
	if l == nil {
		l = slog.Default()
	}
	if tsKey == "" {
		tsKey = "ts"
	}
	return &SlogAdapter{l: l, lv: lv, tsKey: tsKey}
}

func (a *SlogAdapter) With(fs []logroute.Field) logroute.Adapter {
	child := *a
	child.bound = append(append([]logroute.Field(nil), a.bound...), fs...)
	return &child
}

func (a *SlogAdapter) Log(level logroute.Level, msg string, at time.Time, fields []logroute.Field) {
	sl, ok := toSlog(level)
	if !ok {
		return
	}
	ctx := context.Background()
	if !a.l.Enabled(ctx, sl) {
		return
	}
	attrs := make([]slog.Attr, 0, len(a.bound)+len(fields)+1)
	attrs = append(attrs, slog.Time(a.tsKey, at))
	for i := range a.bound {
		attrs = append(attrs, toAttr(a.bound[i]))
	}
	for i := range fields {
		attrs = append(attrs, toAttr(fields[i]))
	}
	a.l.LogAttrs(ctx, sl, msg, attrs...)
}

// SetMinLevel updates the LevelVar when one was supplied.
func (a *SlogAdapter) SetMinLevel(l logroute.Level) {
	if a.lv == nil {
		return
	}
	if sl, ok := toSlog(l); ok {
		a.lv.Set(sl)
		return
	}
	a.lv.Set(levelOff)
}

func toSlog(l logroute.Level) (slog.Level, bool) {
	switch l {
	case logroute.LevelTrace:
		return LevelTrace, true
	case logroute.LevelDebug:
		return slog.LevelDebug, true
	case logroute.LevelInfo:
		return slog.LevelInfo, true
	case logroute.LevelWarn:
		return slog.LevelWarn, true
	case logroute.LevelError:
		return slog.LevelError, true
	case logroute.LevelFatal:
		return LevelFatal, true
	default:
		return levelOff, false
	}
}

func toAttr(f logroute.Field) slog.Attr {
	switch f.Kind {
	case logroute.KindString:
		return slog.String(f.K, f.Str)
	case logroute.KindInt64:
		return slog.Int64(f.K, f.Int64)
	case logroute.KindUint64:
		return slog.Uint64(f.K, f.Uint64)
	case logroute.KindFloat64:
		return slog.Float64(f.K, f.Float64)
	case logroute.KindBool:
		return slog.Bool(f.K, f.Bool)
	case logroute.KindDuration:
		return slog.Duration(f.K, f.Dur)
	case logroute.KindTime:
		return slog.Time(f.K, f.Time)
	case logroute.KindError:
		if f.Err == nil {
			return slog.Any(f.K, nil)
		}
		return slog.String(f.K, f.Err.Error())
	case logroute.KindBytes:
		return slog.Any(f.K, f.Bytes)
	case logroute.KindAny:
		return slog.Any(f.K, f.Any)
	default:
		return slog.Any(f.K, nil)
	}
}

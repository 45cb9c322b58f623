package zerologadapter

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/logroute"
)

// Adapter writes logroute lines to an rs/zerolog logger.
//
// With binds fields onto a child zerolog.Logger once, and Log checks
// GetLevel before allocating a zerolog.Event.
type Adapter struct {
	l zerolog.Logger
}

func New(l zerolog.Logger) *Adapter {
	return &Adapter{l: l}
}

func (a *Adapter) With(fs []logroute.Field) logroute.Adapter {
	child := *a
	if len(fs) == 0 {
		return &child
	}
	ctx := a.l.With()
	for i := range fs {
		ctx = appendCtxField(ctx, &fs[i])
	}
	child.l = ctx.Logger()
	return &child
}

// Log emits a single entry with the caller's timestamp as "ts".
func (a *Adapter) Log(level logroute.Level, msg string, at time.Time, fields []logroute.Field) {
	zlvl := mapLevel(level)
	if zlvl == zerolog.Disabled || zlvl < a.l.GetLevel() {
		return
	}
	ev := a.l.WithLevel(zlvl)
	ev.Str("ts", at.UTC().Format(time.RFC3339Nano))
	for i := range fields {
		appendEventField(ev, &fields[i])
	}
	ev.Msg(msg)
}

// SetMinLevel lets logroute.Builder propagate the min level into zerolog.
func (a *Adapter) SetMinLevel(l logroute.Level) {
	a.l = a.l.Level(mapLevel(l))
}

// mapLevel converts a logroute level. Fatal maps to Error so zerolog never
// exits the process; None disables output.
func mapLevel(l logroute.Level) zerolog.Level {
	switch l {
	case logroute.LevelTrace:
		return zerolog.TraceLevel
	case logroute.LevelDebug:
		return zerolog.DebugLevel
	case logroute.LevelInfo:
		return zerolog.InfoLevel
	case logroute.LevelWarn:
		return zerolog.WarnLevel
	case logroute.LevelError, logroute.LevelFatal:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

func appendEventField(e *zerolog.Event, f *logroute.Field) {
	switch f.Kind {
	case logroute.KindString:
		e.Str(f.K, f.Str)
	case logroute.KindInt64:
		e.Int64(f.K, f.Int64)
	case logroute.KindUint64:
		e.Uint64(f.K, f.Uint64)
	case logroute.KindFloat64:
		e.Float64(f.K, f.Float64)
	case logroute.KindBool:
		e.Bool(f.K, f.Bool)
	case logroute.KindDuration:
		e.Dur(f.K, f.Dur)
	case logroute.KindTime:
		e.Time(f.K, f.Time)
	case logroute.KindError:
		if f.Err == nil {
			return
		}
		if f.K == "" || f.K == "error" {
			e.Err(f.Err)
		} else {
			e.AnErr(f.K, f.Err)
		}
	case logroute.KindBytes:
		e.Bytes(f.K, f.Bytes)
	case logroute.KindAny:
		e.Interface(f.K, f.Any)
	default:
		e.Interface(f.K, nil)
	}
}

func appendCtxField(ctx zerolog.Context, f *logroute.Field) zerolog.Context {
	switch f.Kind {
	case logroute.KindString:
		return ctx.Str(f.K, f.Str)
	case logroute.KindInt64:
		return ctx.Int64(f.K, f.Int64)
	case logroute.KindUint64:
		return ctx.Uint64(f.K, f.Uint64)
	case logroute.KindFloat64:
		return ctx.Float64(f.K, f.Float64)
	case logroute.KindBool:
		return ctx.Bool(f.K, f.Bool)
	case logroute.KindDuration:
		return ctx.Dur(f.K, f.Dur)
	case logroute.KindTime:
		return ctx.Time(f.K, f.Time)
	case logroute.KindError:
		if f.Err == nil {
			return ctx
		}
		if f.K == "" || f.K == "error" {
			return ctx.Err(f.Err)
		}
		// Context has no named-error variant.
		return ctx.Str(f.K, f.Err.Error())
	case logroute.KindBytes:
		return ctx.Bytes(f.K, f.Bytes)
	case logroute.KindAny:
		return ctx.Interface(f.K, f.Any)
	default:
		return ctx.Interface(f.K, nil)
	}
}

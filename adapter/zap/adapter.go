package zapadapter

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trickstertwo/logroute"
)

// Adapter writes logroute lines to a go.uber.org/zap logger.
//
// Bound fields are baked into a child zap.Logger by With, and Check is used
// so disabled levels never build fields. When an AtomicLevel is supplied,
// SetMinLevel moves the backend filter along with the logroute one.
type Adapter struct {
	l     *zap.Logger
	al    *zap.AtomicLevel // optional, enables SetMinLevel
	tsKey string
}

// New creates an adapter for the provided zap logger.
func New(l *zap.Logger) *Adapter {
	return NewWithTimestampKey(l, nil, "")
}

// NewWithAtomicLevel wires al so SetMinLevel adjusts the backend filter.
func NewWithAtomicLevel(l *zap.Logger, al *zap.AtomicLevel) *Adapter {
	return NewWithTimestampKey(l, al, "")
}

// NewWithTimestampKey lets callers override the timestamp field key (default "ts").
func NewWithTimestampKey(l *zap.Logger, al *zap.AtomicLevel, tsKey string) *Adapter {
	if l == nil {
		l = zap.NewNop()
	}
	if tsKey == "" {
		tsKey = "ts"
	}
	return &Adapter{l: l, al: al, tsKey: tsKey}
}

func (a *Adapter) With(fs []logroute.Field) logroute.Adapter {
	child := *a
	if len(fs) > 0 {
		child.l = a.l.With(convertFields(fs)...)
	}
	return &child
}

// Log emits one line, stamped with the caller's timestamp under tsKey.
func (a *Adapter) Log(level logroute.Level, msg string, at time.Time, fields []logroute.Field) {
	zlvl, ok := toZapLevel(level)
	if !ok {
		return
	}
	ce := a.l.Check(zlvl, msg)
	if ce == nil {
		return
	}
	zfs := make([]zap.Field, 0, 1+len(fields))
	zfs = append(zfs, zap.String(a.tsKey, at.UTC().Format(time.RFC3339Nano)))
	for i := range fields {
		zfs = append(zfs, toZapField(&fields[i]))
	}
	ce.Write(zfs...)
}

// SetMinLevel updates the backend filter when an AtomicLevel was supplied.
// LevelNone raises the filter above every level zap writes without exiting.
func (a *Adapter) SetMinLevel(l logroute.Level) {
	if a.al == nil {
		return
	}
	if zl, ok := toZapLevel(l); ok {
		a.al.SetLevel(zl)
		return
	}
	a.al.SetLevel(zapcore.FatalLevel)
}

// Sync flushes the underlying zap core.
func (a *Adapter) Sync() error { return a.l.Sync() }

// toZapLevel maps a logroute level to zap. Trace folds into Debug and Fatal into
// Error so library code never exits; None has no zap level.
func toZapLevel(l logroute.Level) (zapcore.Level, bool) {
	switch l {
	case logroute.LevelTrace, logroute.LevelDebug:
		return zapcore.DebugLevel, true
	case logroute.LevelInfo:
		return zapcore.InfoLevel, true
	case logroute.LevelWarn:
		return zapcore.WarnLevel, true
	case logroute.LevelError, logroute.LevelFatal:
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InvalidLevel, false
	}
}

func convertFields(fs []logroute.Field) []zap.Field {
	out := make([]zap.Field, len(fs))
	for i := range fs {
		out[i] = toZapField(&fs[i])
	}
	return out
}

func toZapField(f *logroute.Field) zap.Field {
	switch f.Kind {
	case logroute.KindString:
		return zap.String(f.K, f.Str)
	case logroute.KindInt64:
		return zap.Int64(f.K, f.Int64)
	case logroute.KindUint64:
		return zap.Uint64(f.K, f.Uint64)
	case logroute.KindFloat64:
		return zap.Float64(f.K, f.Float64)
	case logroute.KindBool:
		return zap.Bool(f.K, f.Bool)
	case logroute.KindDuration:
		return zap.Duration(f.K, f.Dur)
	case logroute.KindTime:
		return zap.Time(f.K, f.Time)
	case logroute.KindError:
		if f.Err == nil {
			return zap.Skip()
		}
		if f.K == "" || f.K == "error" {
			return zap.Error(f.Err)
		}
		return zap.NamedError(f.K, f.Err)
	case logroute.KindBytes:
		return zap.ByteString(f.K, f.Bytes)
	case logroute.KindAny:
		return zap.Any(f.K, f.Any)
	default:
		return zap.Skip()
	}
}

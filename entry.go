package logroute

import (
	"sync"
	"time"
)

// Entry is a fluent builder (Builder pattern) for a single log line.
// API: logger.Warn().Str("node", id).Err(err).Msg("moved {} to {}", rec, dst)
//
// Fields reach the backend adapter only; observers receive the formatted
// message, correlation id and cause.
type Entry struct {
	l      *Logger
	level  Level
	cause  error
	fields []Field
}

var entryPool = sync.Pool{
	New: func() any { return &Entry{fields: make([]Field, 0, 8)} },
}

func getEntry(l *Logger, level Level) *Entry {
	en := entryPool.Get().(*Entry)
	en.l = l
	en.level = level
	en.cause = nil
	en.fields = en.fields[:0]
	return en
}

func (e *Entry) putBack() {
	// allow GC of large backing arrays by capping
	if cap(e.fields) > 128 {
		e.fields = make([]Field, 0, 8)
	}
	e.l = nil
	e.level = 0
	e.cause = nil
	entryPool.Put(e)
}

func (e *Entry) Str(k, v string) *Entry {
	e.fields = append(e.fields, Field{K: k, Kind: KindString, Str: v})
	return e
}

func (e *Entry) Int(k string, v int) *Entry {
	e.fields = append(e.fields, Int(k, v))
	return e
}

func (e *Entry) Int64(k string, v int64) *Entry {
	e.fields = append(e.fields, Field{K: k, Kind: KindInt64, Int64: v})
	return e
}

func (e *Entry) Uint64(k string, v uint64) *Entry {
	e.fields = append(e.fields, Field{K: k, Kind: KindUint64, Uint64: v})
	return e
}

func (e *Entry) Float64(k string, v float64) *Entry {
	e.fields = append(e.fields, Field{K: k, Kind: KindFloat64, Float64: v})
	return e
}

func (e *Entry) Bool(k string, v bool) *Entry {
	e.fields = append(e.fields, Field{K: k, Kind: KindBool, Bool: v})
	return e
}

func (e *Entry) Dur(k string, v time.Duration) *Entry {
	e.fields = append(e.fields, Field{K: k, Kind: KindDuration, Dur: v})
	return e
}

func (e *Entry) Time(k string, v time.Time) *Entry {
	e.fields = append(e.fields, Field{K: k, Kind: KindTime, Time: v})
	return e
}

func (e *Entry) Any(k string, v any) *Entry {
	e.fields = append(e.fields, Field{K: k, Kind: KindAny, Any: v})
	return e
}

// Err sets the cause of the line. A nil err leaves the line without one.
func (e *Entry) Err(err error) *Entry {
	e.cause = err
	return e
}

// Msg terminates the builder: template is formatted positionally with args
// (see Format) and the line is emitted.
func (e *Entry) Msg(template string, args ...any) {
	e.l.emit(e.level, e.cause, template, args, e.fields)
	e.putBack()
}

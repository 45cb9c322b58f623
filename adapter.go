package logroute

import "time"

// Adapter is the logging backend Strategy (zap, zerolog, slog, ...).
// Log receives the single authoritative timestamp 'at' from the caller so the
// backend line and the routed Event agree.
type Adapter interface {
	Log(level Level, msg string, at time.Time, fields []Field)
	With(fields []Field) Adapter // return a child adapter with bound fields (do not mutate receiver)
}

// Discard is an Adapter that drops everything.
var Discard Adapter = discard{}

type discard struct{}

func (discard) Log(Level, string, time.Time, []Field) {}
func (d discard) With([]Field) Adapter               { return d }

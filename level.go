package logroute

import (
	"fmt"
	"strings"
)

// Level is an ordered severity. Ordering follows constant position; LevelNone is
// the highest value and is never logged at, so it never owns a bucket.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	LevelNone
)

// numBuckets is the count of levels that can receive events (everything below None).
const numBuckets = int(LevelNone)

var levelNames = [...]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
	LevelNone:  "none",
}

// Levels returns every level in ascending order, None included.
func Levels() []Level {
	return []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal, LevelNone}
}

// Valid reports whether l is one of the declared constants.
func (l Level) Valid() bool { return l <= LevelNone }

// observable reports whether events may be dispatched at l.
func (l Level) observable() bool { return l < LevelNone }

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("level(%d)", uint8(l))
	}
	return levelNames[l]
}

func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: level %d", ErrInvalidArgument, uint8(l))
	}
	return []byte(levelNames[l]), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ParseLevel maps a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	case "none", "off":
		return LevelNone, nil
	default:
		return LevelNone, fmt.Errorf("%w: unknown level %q", ErrInvalidArgument, s)
	}
}

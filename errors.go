package logroute

import (
	"errors"
	"fmt"
)

var (
	// ErrObserverExists is returned when an identifier is registered twice.
	ErrObserverExists = errors.New("logroute: observer identifier already exists")
	// ErrObserverNotFound is returned when querying an unknown identifier.
	ErrObserverNotFound = errors.New("logroute: observer identifier does not exist")
	ErrNoAdapter        = errors.New("logroute: no adapter configured")
	ErrInvalidArgument  = errors.New("logroute: invalid argument")
)

// ObserverError describes a failure raised by one observer during dispatch.
// It never reaches the producer; it is handed to the diagnostic sink.
type ObserverError struct {
	ID    string
	Level Level
	Err   error
}

func (e *ObserverError) Error() string {
	return fmt.Sprintf("logroute: observer %q failed at %s: %v", e.ID, e.Level, e.Err)
}

func (e *ObserverError) Unwrap() error { return e.Err }

package logroute

import "time"

// Event is one routed log line. It is passed by value, so every observer holds
// its own copy and nothing it does is visible to the repository or its siblings.
type Event struct {
	At    time.Time
	Level Level
	// Message is already formatted.
	Message string
	// CorrelationID links the line to a unit of work; empty when unknown or ambiguous.
	CorrelationID string
	// Cause is the display string of the error that triggered the line, if any.
	Cause string
}

// HasCorrelation reports whether the event names a single originating entity.
func (e Event) HasCorrelation() bool { return e.CorrelationID != "" }

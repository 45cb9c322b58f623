package logroute

// Observer receives routed events. The repository never inspects an observer;
// it only calls OnLogEvent. Implementations MUST be concurrency-safe, since
// producers dispatch from many goroutines.
//
// A returned error (or a panic) is contained by the repository and reported to
// its diagnostic adapter; sibling observers still receive the event.
type Observer interface {
	OnLogEvent(e Event) error
}

// ObserverFunc adapter.
type ObserverFunc func(Event) error

func (f ObserverFunc) OnLogEvent(e Event) error { return f(e) }

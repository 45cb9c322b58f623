package logroute

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trickstertwo/xclock"
)

// RepositoryConfig holds the collaborators of a Repository. Zero values pick defaults.
type RepositoryConfig struct {
	// Clock stamps events built by Log/LogCause. Default: xclock.Default() at call time.
	Clock xclock.Clock
	// Diagnostics receives observer failures, never ordinary routed events.
	// Default: DefaultAdapter(os.Stderr), i.e. Discard unless an adapter package registered a factory.
	Diagnostics Adapter
	Correlation CorrelationFunc
	Cause       CauseFunc
}

// registration is the repository's handle on one observer. Buckets hold
// pointers to it, so identity never depends on the observer being comparable.
type registration struct {
	id  string
	obs Observer
}

// Repository routes events to observers subscribed at a minimum level.
//
// Both indexes are guarded by one RWMutex. Bucket slices are never mutated in
// place: writers install fresh slices, so a reader may keep the slice it loaded
// and invoke observers after releasing the lock.
type Repository struct {
	mu     sync.RWMutex
	levels [numBuckets][]*registration
	byID   map[string]*registration

	clock     xclock.Clock
	diag      Adapter
	correlate CorrelationFunc
	cause     CauseFunc

	component atomic.Pointer[Logger]

	dispatched atomic.Uint64
	failures   atomic.Uint64
}

// NewRepository returns an empty repository.
func NewRepository(cfg RepositoryConfig) *Repository {
	r := &Repository{
		byID:      make(map[string]*registration),
		clock:     cfg.Clock,
		diag:      cfg.Diagnostics,
		correlate: cfg.Correlation,
		cause:     cfg.Cause,
	}
	if r.diag == nil {
		r.diag = DefaultAdapter(nil)
	}
	if r.correlate == nil {
		r.correlate = DefaultCorrelation
	}
	if r.cause == nil {
		r.cause = DefaultCause
	}
	return r
}

// AddObserver subscribes o under id at every level from minLevel up to LevelFatal.
// Registering at LevelNone records the id but places it in no bucket.
// A duplicate id fails with ErrObserverExists and changes nothing.
func (r *Repository) AddObserver(id string, minLevel Level, o Observer) error {
	if id == "" || o == nil {
		return fmt.Errorf("%w: observer identifier and observer are required", ErrInvalidArgument)
	}
	if !minLevel.Valid() {
		return fmt.Errorf("%w: level %d", ErrInvalidArgument, uint8(minLevel))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; ok {
		return fmt.Errorf("%w: %q", ErrObserverExists, id)
	}
	r.addLocked(&registration{id: id, obs: o}, minLevel)
	return nil
}

func (r *Repository) addLocked(reg *registration, minLevel Level) {
	for l := int(minLevel); l < numBuckets; l++ {
		cur := r.levels[l]
		next := make([]*registration, len(cur), len(cur)+1)
		copy(next, cur)
		r.levels[l] = append(next, reg)
	}
	r.byID[reg.id] = reg
}

// RemoveObserver unsubscribes id everywhere and returns its observer.
// Unknown ids are a no-op reported as (nil, false).
func (r *Repository) RemoveObserver(id string) (Observer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg := r.removeLocked(id)
	if reg == nil {
		return nil, false
	}
	return reg.obs, true
}

func (r *Repository) removeLocked(id string) *registration {
	reg, ok := r.byID[id]
	if !ok {
		return nil
	}
	for l := range r.levels {
		r.levels[l] = without(r.levels[l], reg)
	}
	delete(r.byID, id)
	return reg
}

// without returns bucket minus reg, sharing nothing with bucket when reg is present.
func without(bucket []*registration, reg *registration) []*registration {
	idx := -1
	for i, x := range bucket {
		if x == reg {
			idx = i
			break
		}
	}
	if idx < 0 {
		return bucket
	}
	if len(bucket) == 1 {
		return nil
	}
	next := make([]*registration, 0, len(bucket)-1)
	next = append(next, bucket[:idx]...)
	return append(next, bucket[idx+1:]...)
}

// RemoveAllObservers resets the repository to its empty state.
func (r *Repository) RemoveAllObservers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for l := range r.levels {
		r.levels[l] = nil
	}
	clear(r.byID)
}

// SetObservationLevel moves the observer registered under id to a new minimum
// level as one atomic step. Unknown ids are ignored; only an undeclared level
// is an error.
func (r *Repository) SetObservationLevel(id string, level Level) error {
	if !level.Valid() {
		return fmt.Errorf("%w: level %d", ErrInvalidArgument, uint8(level))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg := r.removeLocked(id); reg != nil {
		r.addLocked(reg, level)
	}
	return nil
}

// ObservationLevel returns the lowest level at which id receives events, or
// LevelNone if it is registered but in no bucket.
func (r *Repository) ObservationLevel(id string) (Level, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.byID[id]
	if !ok {
		return LevelNone, fmt.Errorf("%w: %q", ErrObserverNotFound, id)
	}
	for l := range r.levels {
		for _, x := range r.levels[l] {
			if x == reg {
				return Level(l), nil
			}
		}
	}
	return LevelNone, nil
}

// IsObservedAt reports whether any observer receives events at level. Producers
// use it to skip building events nobody wants.
func (r *Repository) IsObservedAt(level Level) bool {
	if !level.observable() {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.levels[level]) > 0
}

// IsDebugEnabled is IsObservedAt(LevelDebug).
func (r *Repository) IsDebugEnabled() bool { return r.IsObservedAt(LevelDebug) }

// IsInfoEnabled is IsObservedAt(LevelInfo).
func (r *Repository) IsInfoEnabled() bool { return r.IsObservedAt(LevelInfo) }

// IsWarnEnabled is IsObservedAt(LevelWarn).
func (r *Repository) IsWarnEnabled() bool { return r.IsObservedAt(LevelWarn) }

// IsErrorEnabled is IsObservedAt(LevelError).
func (r *Repository) IsErrorEnabled() bool { return r.IsObservedAt(LevelError) }

// ObserverIDs returns the registered identifiers, sorted.
func (r *Repository) ObserverIDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Dispatch delivers e to every observer subscribed at e.Level, in registration
// order. Observer errors and panics are reported to the diagnostic adapter and
// never reach the caller. LevelNone and empty buckets are silent no-ops.
func (r *Repository) Dispatch(e Event) {
	if !e.Level.observable() {
		return
	}
	r.mu.RLock()
	regs := r.levels[e.Level]
	r.mu.RUnlock()
	if len(regs) == 0 {
		return
	}
	r.dispatched.Add(1)
	for _, reg := range regs {
		r.notify(reg, e)
	}
}

func (r *Repository) notify(reg *registration, e Event) {
	defer func() {
		if p := recover(); p != nil {
			r.report(reg, e, fmt.Errorf("panic: %v", p))
		}
	}()
	if err := reg.obs.OnLogEvent(e); err != nil {
		r.report(reg, e, err)
	}
}

func (r *Repository) report(reg *registration, e Event, err error) {
	r.failures.Add(1)
	oerr := &ObserverError{ID: reg.id, Level: e.Level, Err: err}
	r.diag.Log(LevelError, "failed to pass log event to observer", r.now(), []Field{
		Str(KeyObserver, reg.id),
		Str(KeyEventLevel, e.Level.String()),
		Err(KeyError, oerr),
	})
}

// Log formats template with args and dispatches the result at level.
// See NewEvent for how args are interpreted.
func (r *Repository) Log(level Level, template string, args ...any) {
	if !r.IsObservedAt(level) {
		return
	}
	r.Dispatch(r.NewEvent(level, nil, template, args...))
}

// LogCause is Log with an error cause attached to the event.
func (r *Repository) LogCause(level Level, cause error, template string, args ...any) {
	if !r.IsObservedAt(level) {
		return
	}
	r.Dispatch(r.NewEvent(level, cause, template, args...))
}

// NewEvent builds an event stamped by the repository clock. Error args are
// reduced to display strings before anything else, so they never count as
// correlatable; a single correlatable arg sets CorrelationID, several set none.
// Nil pointers render as "null" and are never entities. args is not modified.
func (r *Repository) NewEvent(level Level, cause error, template string, args ...any) Event {
	if len(args) > 0 {
		reduced := make([]any, len(args))
		for i, a := range args {
			switch v := a.(type) {
			case nil:
			case error:
				if !isNil(v) {
					reduced[i] = reduceCause(r.cause, v)
				}
			default:
				if !isNil(v) {
					reduced[i] = v
				}
			}
		}
		args = reduced
	}
	return Event{
		At:            r.now(),
		Level:         level,
		Message:       format(template, args, r.cause),
		CorrelationID: CorrelationID(r.correlate, args),
		Cause:         reduceCause(r.cause, cause),
	}
}

func (r *Repository) now() time.Time {
	if r.clock != nil {
		return r.clock.Now()
	}
	return xclock.Now()
}

// SetComponentLogger records the logger of the component owning r. Last write wins.
func (r *Repository) SetComponentLogger(l *Logger) { r.component.Store(l) }

// ComponentLogger returns the logger set by SetComponentLogger, or nil.
func (r *Repository) ComponentLogger() *Logger { return r.component.Load() }

// RepositoryStats is a point-in-time counters snapshot.
type RepositoryStats struct {
	Observers        int
	Dispatched       uint64 // events that reached a non-empty bucket
	ObserverFailures uint64
}

// Stats returns the current observer count and the dispatch counters.
func (r *Repository) Stats() RepositoryStats {
	r.mu.RLock()
	n := len(r.byID)
	r.mu.RUnlock()
	return RepositoryStats{
		Observers:        n,
		Dispatched:       r.dispatched.Load(),
		ObserverFailures: r.failures.Load(),
	}
}

package logroute

// Logger is the handle a component logs through. Each line goes to the backend
// Adapter when it passes minLevel, and to the component's Repository when any
// observer is subscribed at its level. The two filters are independent.
type Logger struct {
	adapter  Adapter
	minLevel Level
	repo     *Repository
}

// Factory: internal constructor.
func newLogger(cfg Config) *Logger {
	return &Logger{
		adapter:  cfg.Adapter,
		minLevel: cfg.MinLevel,
		repo:     cfg.Repository,
	}
}

// Enabled reports whether a line at 'level' would reach the backend or any
// observer. Use to avoid building fields in hot paths when disabled.
func (l *Logger) Enabled(level Level) bool {
	return l.backendEnabled(level) || l.repo.IsObservedAt(level)
}

func (l *Logger) backendEnabled(level Level) bool {
	return level.observable() && level >= l.minLevel
}

// Repository returns the repository this logger routes to.
func (l *Logger) Repository() *Repository { return l.repo }

// Level entry points returning fluent builders.

func (l *Logger) Trace() *Entry { return getEntry(l, LevelTrace) }
func (l *Logger) Debug() *Entry { return getEntry(l, LevelDebug) }
func (l *Logger) Info() *Entry  { return getEntry(l, LevelInfo) }
func (l *Logger) Warn() *Entry  { return getEntry(l, LevelWarn) }
func (l *Logger) Error() *Entry { return getEntry(l, LevelError) }
func (l *Logger) Fatal() *Entry { return getEntry(l, LevelFatal) }

// Log emits a line without structured fields.
func (l *Logger) Log(level Level, template string, args ...any) {
	l.emit(level, nil, template, args, nil)
}

// LogCause emits a line carrying cause.
func (l *Logger) LogCause(level Level, cause error, template string, args ...any) {
	l.emit(level, cause, template, args, nil)
}

// With returns a child logger with bound fields. The child routes to the same
// repository; bound fields only reach the backend.
func (l *Logger) With(fs ...Field) *Logger {
	return &Logger{
		adapter:  l.adapter.With(fs),
		minLevel: l.minLevel,
		repo:     l.repo,
	}
}

func (l *Logger) emit(level Level, cause error, template string, args []any, evFields []Field) {
	toBackend := l.backendEnabled(level)
	toRepo := l.repo.IsObservedAt(level)
	if !toBackend && !toRepo {
		return
	}
	if isNil(cause) {
		cause = nil
	}
	// One event, one timestamp, shared by backend and observers.
	ev := l.repo.NewEvent(level, cause, template, args...)

	if toBackend {
		fields := evFields
		if ev.CorrelationID != "" || cause != nil {
			fields = eventFields(copyFields(make([]Field, 0, len(evFields)+2), evFields), ev, cause)
		}
		l.adapter.Log(level, ev.Message, ev.At, fields)
	}
	if toRepo {
		l.repo.Dispatch(ev)
	}
}

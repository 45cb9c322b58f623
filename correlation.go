package logroute

import "reflect"

// Correlated is implemented by log arguments that reference a unit of work,
// e.g. a record or request flowing through a pipeline node.
type Correlated interface {
	CorrelationID() string
}

// CorrelationFunc decides whether a log argument is a correlatable entity and
// extracts its id. An entity with an empty id still counts as an entity.
type CorrelationFunc func(arg any) (string, bool)

// CauseFunc reduces an error to the string stored in Event.Cause.
type CauseFunc func(err error) string

// DefaultCorrelation accepts any non-nil Correlated argument.
func DefaultCorrelation(arg any) (string, bool) {
	c, ok := arg.(Correlated)
	if !ok || isNil(c) {
		return "", false
	}
	return c.CorrelationID(), true
}

// DefaultCause returns err.Error(), or "" for nil and typed-nil errors.
func DefaultCause(err error) string {
	if isNil(err) {
		return ""
	}
	return err.Error()
}

// CorrelationID scans args for correlatable entities. Exactly one yields its id,
// which may be empty. With two or more the source is ambiguous and no id is
// returned; the scan never picks one of them. A panicking fn counts as no match.
func CorrelationID(fn CorrelationFunc, args []any) string {
	if fn == nil {
		fn = DefaultCorrelation
	}
	var (
		found string
		count int
	)
	for _, a := range args {
		id, ok := correlate(fn, a)
		if !ok {
			continue
		}
		if count++; count > 1 {
			return ""
		}
		found = id
	}
	return found
}

func correlate(fn CorrelationFunc, arg any) (id string, ok bool) {
	defer func() {
		if recover() != nil {
			id, ok = "", false
		}
	}()
	return fn(arg)
}

// reduceCause applies fn to err. Nil errors, typed-nil errors and panics in
// fn all reduce to "".
func reduceCause(fn CauseFunc, err error) (s string) {
	if isNil(err) {
		return ""
	}
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()
	return fn(err)
}

// isNil reports whether v is nil or a nil pointer held in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

package logroute

// Forward returns an Observer that writes each event to a backend adapter,
// e.g. to mirror one component's WARN+ lines into a dedicated zap core.
func Forward(a Adapter) Observer {
	return ObserverFunc(func(e Event) error {
		a.Log(e.Level, e.Message, e.At, eventFields(nil, e, nil))
		return nil
	})
}

// Package promobserver provides a logroute.Observer that counts routed events
// in Prometheus.
package promobserver

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/trickstertwo/logroute"
)

// Observer counts events by component, level and whether they carried a
// correlation id.
type Observer struct {
	component string
	events    *prometheus.CounterVec
	causes    *prometheus.CounterVec
}

// Opts configures the collectors. Namespace defaults to "logroute".
type Opts struct {
	Namespace string
	Subsystem string
	// Component is attached to every sample as the "component" label.
	Component string
}

// New creates the observer and registers its collectors on reg. Registering a
// second observer with the same Opts on the same reg reuses the existing collectors.
func New(reg prometheus.Registerer, opts Opts) (*Observer, error) {
	if opts.Namespace == "" {
		opts.Namespace = "logroute"
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      "events_total",
		Help:      "Log events routed to this observer",
	}, []string{"component", "level", "correlated"})
	causes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      "events_with_cause_total",
		Help:      "Log events routed to this observer that carried an error cause",
	}, []string{"component", "level"})

	var err error
	if events, err = register(reg, events); err != nil {
		return nil, err
	}
	if causes, err = register(reg, causes); err != nil {
		return nil, err
	}
	return &Observer{component: opts.Component, events: events, causes: causes}, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if reg == nil {
		return c, nil
	}
	if err := reg.Register(c); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		return existing, nil
	}
	return c, nil
}

func (o *Observer) OnLogEvent(e logroute.Event) error {
	correlated := "false"
	if e.HasCorrelation() {
		correlated = "true"
	}
	level := e.Level.String()
	o.events.WithLabelValues(o.component, level, correlated).Inc()
	if e.Cause != "" {
		o.causes.WithLabelValues(o.component, level).Inc()
	}
	return nil
}

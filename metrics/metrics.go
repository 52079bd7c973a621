// Package metrics counts engine events for Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/subgate-cli/subgate/event"
)

const namespace = "subgate"

// Metrics is an event.Sink that turns terminal events into counters.
// Pending events are ignored.
type Metrics struct {
	Intercepted   *prometheus.CounterVec
	ResourceLoads *prometheus.CounterVec
	Submissions   *prometheus.CounterVec
	Relays        *prometheus.CounterVec
	Sessions      prometheus.Counter
}

// New creates and registers the counters with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Intercepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "interceptor",
			Name:      "intercepted_total",
			Help:      "Calls vetoed by the interceptor, by outcome.",
		}, []string{"kind"}),
		ResourceLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "resource_loads_total",
			Help:      "Completed resource fetches, by resource kind and result.",
		}, []string{"kind", "result"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submitter",
			Name:      "submissions_total",
			Help:      "Finished subscription submissions, by result.",
		}, []string{"result"}),
		Relays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "relays_total",
			Help:      "Finished link relays, by result.",
		}, []string{"result"}),
		Sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestrator",
			Name:      "sessions_closed_total",
			Help:      "Sessions torn down.",
		}),
	}

	reg.MustRegister(m.Intercepted, m.ResourceLoads, m.Submissions, m.Relays, m.Sessions)
	return m
}

func (m *Metrics) Publish(e event.Event) {
	if e.Status == event.Pending {
		return
	}

	switch e.Component {
	case event.Interceptor:
		m.Intercepted.WithLabelValues(string(e.Kind)).Inc()
	case event.Orchestrator:
		switch e.Kind {
		case event.Discovery:
			m.ResourceLoads.WithLabelValues("discovery", string(e.Status)).Inc()
		case event.Listing:
			m.ResourceLoads.WithLabelValues(string(e.Resource), string(e.Status)).Inc()
		case event.Episodes:
			m.ResourceLoads.WithLabelValues("episodes", string(e.Status)).Inc()
		case event.Closed:
			m.Sessions.Inc()
		}
	case event.Submitter:
		result := e.Outcome
		if result == "" {
			result = string(e.Status)
		}
		m.Submissions.WithLabelValues(result).Inc()
	case event.Relay:
		m.Relays.WithLabelValues(string(e.Status)).Inc()
	}
}

package helpers

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AuthEvents counts session lifecycle events by outcome.
type AuthEvents struct {
	counter *prometheus.CounterVec
}

// NewAuthEvents registers the counter on reg. A nil reg uses an unregistered counter.
func NewAuthEvents(reg prometheus.Registerer) *AuthEvents {
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_events_total",
		Help: "Session lifecycle events partitioned by event and outcome.",
	}, []string{"event", "outcome"})
	if reg != nil {
		reg.MustRegister(cv)
	}
	return &AuthEvents{counter: cv}
}

// Observe records one event; err == nil counts as success.
func (a *AuthEvents) Observe(event string, err error) {
	if a == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	a.counter.WithLabelValues(event, outcome).Inc()
}

// Collector exposes the underlying counter vector.
func (a *AuthEvents) Collector() *prometheus.CounterVec { return a.counter }

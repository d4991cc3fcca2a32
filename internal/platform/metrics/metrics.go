package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors shared by the services. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Transitions      *prometheus.CounterVec
	Rejections       *prometheus.CounterVec
	VersionConflicts *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "libranexus_transitions_total",
			Help: "Completed state transitions by entity and transition",
		}, []string{"entity", "transition"}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "libranexus_rejections_total",
			Help: "Requests rejected by a circulation rule",
		}, []string{"entity", "reason"}),
		VersionConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "libranexus_version_conflicts_total",
			Help: "Conditional updates that lost against a concurrent writer",
		}, []string{"entity"}),
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "libranexus_events_published_total",
			Help: "Domain events handed to the publisher by group and outcome",
		}, []string{"group", "outcome"}),
	}
}

func (m *Metrics) Transition(entity, transition string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(entity, transition).Inc()
}

func (m *Metrics) Rejection(entity, reason string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(entity, reason).Inc()
}

func (m *Metrics) VersionConflict(entity string) {
	if m == nil {
		return
	}
	m.VersionConflicts.WithLabelValues(entity).Inc()
}

func (m *Metrics) Published(group string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.EventsPublished.WithLabelValues(group, outcome).Inc()
}

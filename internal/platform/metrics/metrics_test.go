package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Transition("checkout", "returned")
	m.Transition("checkout", "returned")
	m.Rejection("checkout", "restricted")
	m.VersionConflict("hold")
	m.Published("checkout", nil)
	m.Published("checkout", errors.New("broker down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("checkout", "returned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejections.WithLabelValues("checkout", "restricted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VersionConflicts.WithLabelValues("hold")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("checkout", "error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Transition("hold", "canceled")
		m.Rejection("hold", "unavailable")
		m.VersionConflict("hold")
		m.Published("book_hold", nil)
	})
}

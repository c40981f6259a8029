// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector counts lesson submissions by outcome and remote round trips by
// collection. It satisfies lesson.Recorder.
type Collector struct {
	submissions *prometheus.CounterVec
	remoteCalls *prometheus.CounterVec
}

// NewCollector registers the application's metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lessondesk_submissions_total",
			Help: "Lesson submissions by outcome (ok, validation, parent_insert, partial).",
		}, []string{"outcome"}),
		remoteCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lessondesk_remote_requests_total",
			Help: "Requests to the remote collaborator by collection and result.",
		}, []string{"collection", "result"}),
	}

	reg.MustRegister(
		c.submissions,
		c.remoteCalls,
	)

	return c
}

func (c *Collector) RecordSubmission(outcome string) {
	c.submissions.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRemoteCall(collection string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.remoteCalls.WithLabelValues(collection, result).Inc()
}

package workflow

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks verification run outcomes and durations per domain.
type Metrics struct {
	Runs     *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics registers workflow metrics on the given registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "runs_total",
			Help:      "Verification workflow runs by domain and outcome.",
		}, []string{"domain", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "run_duration_seconds",
			Help:      "End-to-end verification run duration by domain.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"domain"}),
	}

	reg.MustRegister(m.Runs, m.Duration)
	return m
}

func (m *Metrics) observe(domain, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(domain, outcome).Inc()
	m.Duration.WithLabelValues(domain).Observe(seconds)
}

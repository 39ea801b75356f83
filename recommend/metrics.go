package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports recommendation pipeline counters in Prometheus format.
type Metrics struct {
	Generated prometheus.Counter
	Failed    prometheus.Counter
	Duration  prometheus.Histogram
}

// NewMetrics creates and registers the pipeline metrics. Registering on a nil
// registerer is allowed and registers on the default one.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		Generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shoprec",
			Subsystem: "recommend",
			Name:      "generated_total",
			Help:      "Number of recommendations generated.",
		}),
		Failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shoprec",
			Subsystem: "recommend",
			Name:      "failed_total",
			Help:      "Number of recommendation generation failures.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shoprec",
			Subsystem: "recommend",
			Name:      "generation_duration_seconds",
			Help:      "Duration of recommendation generation per sale.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		}),
	}

	reg.MustRegister(m.Generated, m.Failed, m.Duration)
	return m
}

package observability

import (
	"time"

	"github.com/aretw0/shapeguard/pkg/validator"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the verdict collectors.
type Metrics struct {
	Verdicts *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered, which is useful in tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shapeguard_verdicts_total",
				Help: "Total number of structural checks by schema and outcome",
			},
			[]string{"schema", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shapeguard_check_duration_seconds",
				Help:    "Duration of structural checks",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"schema"},
		),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Verdicts, m.Duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records one check. Inline schemas are reported under the name "inline".
func (m *Metrics) Observe(name string, outcome validator.Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	if name == "" {
		name = "inline"
	}
	m.Verdicts.WithLabelValues(name, string(outcome)).Inc()
	m.Duration.WithLabelValues(name).Observe(elapsed.Seconds())
}

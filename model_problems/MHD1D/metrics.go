package MHD1D

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	RHSEvaluations prometheus.Counter
	Steps          prometheus.Counter
	AdvanceSeconds prometheus.Histogram
	SimTime        prometheus.Gauge
}

// NewMetrics registers the solver metrics with reg, a nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) (m *Metrics, err error) {
	m = &Metrics{
		RHSEvaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gomhd",
			Name:      "rhs_evaluations_total",
			Help:      "Number of right hand side evaluations of the MHD equations.",
		}),
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gomhd",
			Name:      "steps_total",
			Help:      "Number of completed time steps.",
		}),
		AdvanceSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gomhd",
			Name:      "advance_seconds",
			Help:      "Wall time of one right hand side evaluation.",
			Buckets:   prometheus.ExponentialBuckets(1.e-6, 4, 12),
		}),
		SimTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gomhd",
			Name:      "sim_time",
			Help:      "Current simulated time.",
		}),
	}
	if reg == nil {
		return
	}
	for _, c := range []prometheus.Collector{m.RHSEvaluations, m.Steps, m.AdvanceSeconds, m.SimTime} {
		if err = reg.Register(c); err != nil {
			return nil, err
		}
	}
	return
}

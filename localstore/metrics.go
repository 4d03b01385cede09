package localstore

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	failures *prometheus.CounterVec
}

// newMetrics registers the failure counter with r. A nil r, or a counter
// that cannot be registered, yields metrics that count nothing.
func newMetrics(r prometheus.Registerer) *metrics {
	if r == nil {
		return &metrics{}
	}
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "harvestkit",
		Subsystem: "localstore",
		Name:      "failures_total",
		Help:      "Number of store operations that failed and were degraded to a fallback.",
	}, []string{"op"})
	if err := r.Register(failures); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return &metrics{}
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return &metrics{}
		}
		failures = existing
	}
	return &metrics{failures: failures}
}

func (m *metrics) failed(op string) {
	if m.failures != nil {
		m.failures.WithLabelValues(op).Inc()
	}
}

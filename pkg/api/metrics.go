package api

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "mina"
	metricsSubsystem = "signer"
)

// metrics is nil when the client was built without WithMetrics; every
// method is then a no-op.
type metrics struct {
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	operations, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "operations_total",
		Help:      "Number of facade operations performed.",
	}, []string{"op", "network"}))
	if err != nil {
		return nil, err
	}
	failures, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "verify_failures_total",
		Help:      "Number of verifications that returned false or failed.",
	}, []string{"op"}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "operation_duration_seconds",
		Help:      "Duration of facade operations.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"op"}))
	if err != nil {
		return nil, err
	}
	return &metrics{operations: operations, failures: failures, duration: duration}, nil
}

// register adds c to reg, reusing an identical collector registered earlier
// by another client.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}

func (m *metrics) observe(op, network string, start time.Time) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, network).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *metrics) verifyFailed(op string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(op).Inc()
}

package observe

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bjaus/registry"
)

// Metrics holds the Prometheus collectors for observed registries. One
// Metrics value serves any number of registries, told apart by name.
type Metrics struct {
	matches   *prometheus.CounterVec
	mutations *prometheus.CounterVec
	size      *prometheus.GaugeVec
	duration  *prometheus.HistogramVec
}

// NewMetrics creates the collectors under namespace and registers them
// with reg. If any registration fails, the collectors already registered are
// unregistered again.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "matches_total",
			Help:      "Number of Match calls by outcome (hit or miss).",
		}, []string{"registry", "outcome"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "mutations_total",
			Help:      "Number of add and remove operations.",
		}, []string{"registry", "op"}),
		size: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "size",
			Help:      "Number of registered matchers or bound keys.",
		}, []string{"registry"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "match_duration_seconds",
			Help:      "Time spent in Match.",
			Buckets:   []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1},
		}, []string{"registry"}),
	}

	collectors := []prometheus.Collector{m.matches, m.mutations, m.size, m.duration}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			for _, done := range collectors[:i] {
				reg.Unregister(done)
			}
			return nil, fmt.Errorf("register registry metrics: %w", err)
		}
	}
	return m, nil
}

// Option returns the hooks that feed m.
func (m *Metrics) Option() registry.Option {
	return registry.Compose(
		registry.WithOnAdd(func(name string, _, size int) {
			m.mutations.WithLabelValues(name, "add").Inc()
			m.size.WithLabelValues(name).Set(float64(size))
		}),
		registry.WithOnRemove(func(name string, _, size int) {
			m.mutations.WithLabelValues(name, "remove").Inc()
			m.size.WithLabelValues(name).Set(float64(size))
		}),
		registry.WithOnMatch(func(name string, d time.Duration) {
			m.observe(name, "hit", d)
		}),
		registry.WithOnMiss(func(name string, d time.Duration) {
			m.observe(name, "miss", d)
		}),
	)
}

func (m *Metrics) observe(name, outcome string, d time.Duration) {
	m.matches.WithLabelValues(name, outcome).Inc()
	m.duration.WithLabelValues(name).Observe(d.Seconds())
}

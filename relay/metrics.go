package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the relay's collectors. Every server reports under its own region label, so one
// Metrics value can be shared by all servers of a Service.
type Metrics struct {
	allocations *prometheus.GaugeVec
	hosts       *prometheus.GaugeVec
	circuits    *prometheus.GaugeVec
	relayed     *prometheus.CounterVec
}

// NewMetrics creates the relay collectors and registers them with reg. A nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		allocations: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "netbridge",
			Subsystem: "relay",
			Name:      "allocations",
			Help:      "Number of allocations currently held.",
		}, []string{"region"}),
		hosts: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "netbridge",
			Subsystem: "relay",
			Name:      "bound_hosts",
			Help:      "Number of allocations with a bound host.",
		}, []string{"region"}),
		circuits: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "netbridge",
			Subsystem: "relay",
			Name:      "circuits",
			Help:      "Number of client circuits currently spliced to a host.",
		}, []string{"region"}),
		relayed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netbridge",
			Subsystem: "relay",
			Name:      "relayed_bytes_total",
			Help:      "Bytes copied between clients and hosts.",
		}, []string{"region"}),
	}
}

type regionMetrics struct {
	allocations prometheus.Gauge
	hosts       prometheus.Gauge
	circuits    prometheus.Gauge
	relayed     prometheus.Counter
}

func (m *Metrics) region(region string) regionMetrics {
	return regionMetrics{
		allocations: m.allocations.WithLabelValues(region),
		hosts:       m.hosts.WithLabelValues(region),
		circuits:    m.circuits.WithLabelValues(region),
		relayed:     m.relayed.WithLabelValues(region),
	}
}

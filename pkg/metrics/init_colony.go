package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initColonyMetrics() {
	r.PickupsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "antcluster_pickups_total",
			Help: "Pickup attempts by outcome",
		},
		[]string{"outcome"},
	)

	r.DropsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "antcluster_drops_total",
			Help: "Drop attempts by outcome",
		},
		[]string{"outcome"},
	)

	r.CarriedNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "antcluster_carried_nodes",
			Help: "Nodes currently held by an ant",
		},
	)

	r.AntsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "antcluster_ants_total",
			Help: "Number of ants in the colony",
		},
	)

	r.IterationsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "antcluster_iterations_total",
			Help: "Completed colony iterations",
		},
	)

	r.IterationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "antcluster_iteration_duration_seconds",
			Help:    "Wall time of one colony iteration",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		},
	)

	r.PickupProbability = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "antcluster_pickup_probability",
			Help:    "Pickup probability at the densities ants encountered",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)

	r.PreconditionErrors = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "antcluster_precondition_errors_total",
			Help: "Pickup or drop calls rejected before any draw",
		},
		[]string{"operation"},
	)

	r.NodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "antcluster_nodes_total",
			Help: "Nodes in the registry",
		},
	)
}

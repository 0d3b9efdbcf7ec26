package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEvaluationMetrics() {
	r.ClusterSize = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "antcluster_cluster_size",
			Help: "Nodes assigned to each center at the last evaluation",
		},
		[]string{"cluster"},
	)

	r.ClusterSSE = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "antcluster_cluster_sse",
			Help: "Within-cluster sum of squared errors at the last evaluation",
		},
	)

	r.EvaluationsRun = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "antcluster_evaluations_total",
			Help: "Cluster evaluations performed",
		},
	)
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for a clustering run
type Registry struct {
	// Colony Metrics
	PickupsTotal       *prometheus.CounterVec
	DropsTotal         *prometheus.CounterVec
	CarriedNodes       prometheus.Gauge
	AntsTotal          prometheus.Gauge
	IterationsTotal    prometheus.Counter
	IterationDuration  prometheus.Histogram
	PickupProbability  prometheus.Histogram
	PreconditionErrors *prometheus.CounterVec

	// Graph Metrics
	NodesTotal prometheus.Gauge

	// Evaluation Metrics
	ClusterSize    *prometheus.GaugeVec
	ClusterSSE     prometheus.Gauge
	EvaluationsRun prometheus.Counter

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

// Outcome labels for pickup and drop counters.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

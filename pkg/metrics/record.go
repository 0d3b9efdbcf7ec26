package metrics

import (
	"runtime"
	"strconv"
	"time"
)

func outcome(ok bool, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case ok:
		return OutcomeSuccess
	default:
		return OutcomeRejected
	}
}

// RecordPickup records one pickup attempt
func (r *Registry) RecordPickup(ok bool, err error) {
	o := outcome(ok, err)
	r.PickupsTotal.WithLabelValues(o).Inc()
	if o == OutcomeError {
		r.PreconditionErrors.WithLabelValues("pickup").Inc()
	}
}

// RecordDrop records one drop attempt
func (r *Registry) RecordDrop(ok bool, err error) {
	o := outcome(ok, err)
	r.DropsTotal.WithLabelValues(o).Inc()
	if o == OutcomeError {
		r.PreconditionErrors.WithLabelValues("drop").Inc()
	}
}

// RecordIteration records a completed iteration and the colony state after it
func (r *Registry) RecordIteration(duration time.Duration, carried int) {
	r.IterationsTotal.Inc()
	r.IterationDuration.Observe(duration.Seconds())
	r.CarriedNodes.Set(float64(carried))
}

// UpdateColony sets the population gauges
func (r *Registry) UpdateColony(nodes, ants int) {
	r.NodesTotal.Set(float64(nodes))
	r.AntsTotal.Set(float64(ants))
}

// RecordEvaluation replaces the per-cluster sizes with sizes and sets the SSE
func (r *Registry) RecordEvaluation(sizes []int, sse float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Reset so clusters from a previous evaluation with larger k disappear
	r.ClusterSize.Reset()
	for i, n := range sizes {
		r.ClusterSize.WithLabelValues(strconv.Itoa(i)).Set(float64(n))
	}
	r.ClusterSSE.Set(sse)
	r.EvaluationsRun.Inc()
}

// UpdateSystemMetrics samples uptime, goroutines and heap size
func (r *Registry) UpdateSystemMetrics(start time.Time) {
	r.UptimeSeconds.Set(time.Since(start).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}

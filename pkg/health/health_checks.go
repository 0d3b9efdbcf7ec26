package health

import (
	"fmt"
	"sync"
	"time"
)

// ProgressCheck reports unhealthy when an unfinished run has not completed
// an iteration for longer than maxIdle.
func ProgressCheck(progress func() (iteration int, finished bool), maxIdle time.Duration) CheckFunc {
	var mu sync.Mutex
	last := -1
	lastChange := time.Now()

	return func() Check {
		mu.Lock()
		defer mu.Unlock()

		iteration, finished := progress()
		now := time.Now()
		if iteration != last {
			last = iteration
			lastChange = now
		}

		check := Check{
			Details: map[string]any{
				"iteration": iteration,
				"finished":  finished,
			},
		}

		switch {
		case finished:
			check.Status = StatusHealthy
			check.Message = "Run finished"
		case now.Sub(lastChange) > maxIdle:
			check.Status = StatusUnhealthy
			check.Message = fmt.Sprintf("No iteration completed for %s", now.Sub(lastChange).Round(time.Millisecond))
		default:
			check.Status = StatusHealthy
			check.Message = "Run progressing"
		}
		return check
	}
}

// CarriedCheck reports degraded while every ant is carrying a node, which
// means no ant is left to pick up misplaced nodes.
func CarriedCheck(state func() (carried, ants int)) CheckFunc {
	return func() Check {
		carried, ants := state()
		check := Check{
			Details: map[string]any{
				"carried": carried,
				"ants":    ants,
			},
		}

		if ants > 0 && carried >= ants {
			check.Status = StatusDegraded
			check.Message = "All ants are carrying nodes"
		} else {
			check.Status = StatusHealthy
			check.Message = fmt.Sprintf("%d of %d ants carrying", carried, ants)
		}
		return check
	}
}

// MemoryCheck creates a health check for memory usage
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		alloc, sys := getUsage()
		check := Check{
			Details: map[string]any{
				"alloc_bytes": alloc,
				"sys_bytes":   sys,
			},
		}

		if sys > 0 && float64(alloc)/float64(sys) > 0.9 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}
		return check
	}
}

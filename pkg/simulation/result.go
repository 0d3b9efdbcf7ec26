package simulation

import (
	"time"

	"github.com/dd0wney/cluso-antcluster/pkg/graph"
)

// Stats counts ant decisions over a run
type Stats struct {
	Pickups         int `json:"pickups"`
	PickupsRejected int `json:"pickups_rejected"`
	Drops           int `json:"drops"`
	DropsRejected   int `json:"drops_rejected"`
	Errors          int `json:"errors"`
	Carried         int `json:"carried"`
}

// Attempts is the total number of pickup and drop calls
func (s Stats) Attempts() int {
	return s.Pickups + s.PickupsRejected + s.Drops + s.DropsRejected + s.Errors
}

// Progress is a point-in-time view of a run for health reporting
type Progress struct {
	Iteration int  `json:"iteration"`
	Carried   int  `json:"carried"`
	Ants      int  `json:"ants"`
	Finished  bool `json:"finished"`
}

// Result summarizes a finished or canceled run
type Result struct {
	RunID      string        `json:"run_id"`
	Iterations int           `json:"iterations"`
	Stats      Stats         `json:"stats"`
	Duration   time.Duration `json:"duration"`
	Canceled   bool          `json:"canceled"`
}

// Evaluation is the clustering read off the nodes' features
type Evaluation struct {
	Centers  [][]float64
	Clusters [][]*graph.Node
	SSE      float64
}

// Sizes returns the number of nodes in each cluster
func (e *Evaluation) Sizes() []int {
	sizes := make([]int, len(e.Clusters))
	for i, c := range e.Clusters {
		sizes[i] = len(c)
	}
	return sizes
}

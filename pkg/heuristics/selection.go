package heuristics

import (
	"math"

	"github.com/dd0wney/cluso-antcluster/pkg/graph"
	"github.com/dd0wney/cluso-antcluster/pkg/vector"
)

// MostUnique returns the node whose features are farthest from the rest of
// the list, measured as the sum of squared Euclidean distances to every
// other node. The first node wins ties. Pairs whose dimensionality differs
// are ignored. Returns nil for an empty list.
func MostUnique(nodes []*graph.Node) *graph.Node {
	if len(nodes) == 0 {
		return nil
	}

	features := make([][]float64, len(nodes))
	for i, n := range nodes {
		features[i] = n.Features()
	}

	sums := make([]float64, len(nodes))
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			d, err := vector.SquaredEuclidean(features[i], features[j])
			if err != nil {
				continue
			}
			sums[i] += d
			sums[j] += d
		}
	}

	best := 0
	for i := 1; i < len(sums); i++ {
		if sums[i] > sums[best] {
			best = i
		}
	}
	return nodes[best]
}

// MeanDistance is the error of placing n among neighborhood: the mean
// Euclidean feature distance from n to every other member. n itself is
// skipped if present. With no comparable neighbor the error is
// math.MaxFloat64.
func MeanDistance(n *graph.Node, neighborhood []*graph.Node) float64 {
	if n == nil {
		return math.MaxFloat64
	}

	features := n.Features()
	total := 0.0
	count := 0
	for _, other := range neighborhood {
		if other == n || other == nil {
			continue
		}
		d, err := vector.EuclideanDistance(features, other.Features())
		if err != nil {
			continue
		}
		total += d
		count++
	}

	if count == 0 {
		return math.MaxFloat64
	}
	return total / float64(count)
}

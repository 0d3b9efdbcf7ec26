package simulation

import (
	"slices"

	"github.com/dd0wney/cluso-antcluster/pkg/graph"
	"github.com/dd0wney/cluso-antcluster/pkg/validation"
)

// Centers reads k cluster centers off the plane. Seeds are the nodes of k
// spatially separated piles: the node with the most neighbors within Radius
// comes first, then repeatedly the node farthest from every chosen seed.
// The seeds' features are then refined with up to cfg.RefineIterations
// rounds of Lloyd's algorithm; an empty cluster keeps its previous center.
func (s *Simulation) Centers(k int) ([][]float64, error) {
	nodes := s.registry.Vertices()
	if k < 1 {
		return nil, graph.ErrNoCenters
	}
	if err := validation.NewConfigValidator("Centers").RangeInt("k", k, 1, len(nodes)).Validate(); err != nil {
		return nil, err
	}

	seeds := make([]*graph.Node, 0, k)
	seeds = append(seeds, s.densest(nodes))

	// Distance from each node to its closest seed
	closest := make([]float64, len(nodes))
	for i, n := range nodes {
		closest[i] = n.Placement().DistanceTo(seeds[0].Placement())
	}

	for len(seeds) < k {
		far := 0
		for i := range nodes {
			if closest[i] > closest[far] {
				far = i
			}
		}
		seed := nodes[far]
		seeds = append(seeds, seed)
		for i, n := range nodes {
			closest[i] = min(closest[i], n.Placement().DistanceTo(seed.Placement()))
		}
	}

	centers := make([][]float64, k)
	for i, n := range seeds {
		centers[i] = slices.Clone(n.Features())
	}

	for iter := 0; iter < s.cfg.RefineIterations; iter++ {
		clusters, err := graph.AssignClusters(nodes, centers)
		if err != nil {
			return nil, err
		}
		means, err := graph.Centroids(clusters)
		if err != nil {
			return nil, err
		}

		changed := false
		for i, m := range means {
			if m == nil || slices.Equal(m, centers[i]) {
				continue
			}
			centers[i] = m
			changed = true
		}
		if !changed {
			break
		}
	}

	return centers, nil
}

// densest returns the node with the most other nodes within Radius on the
// plane, the first such node on ties.
func (s *Simulation) densest(nodes []*graph.Node) *graph.Node {
	best, bestCount := nodes[0], -1
	for _, n := range nodes {
		count := 0
		p := n.Placement()
		for _, m := range nodes {
			if m != n && m.Placement().DistanceTo(p) <= s.cfg.Radius {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = n, count
		}
	}
	return best
}

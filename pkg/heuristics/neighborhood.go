package heuristics

import (
	"github.com/dd0wney/cluso-antcluster/pkg/graph"
)

// RadiusProvider reports every registered node placed within Radius of a
// position. Density is the fraction of all registered nodes that made it
// into the neighborhood.
type RadiusProvider struct {
	Registry *graph.Registry
	Radius   float64
	// Exclude, if set, drops matching nodes from neighborhoods (they still
	// count toward the registry total).
	Exclude func(*graph.Node) bool
}

// NewRadiusProvider creates a provider over registry.
func NewRadiusProvider(registry *graph.Registry, radius float64) *RadiusProvider {
	return &RadiusProvider{Registry: registry, Radius: radius}
}

// Neighborhood returns the nodes within Radius of pos and their density.
func (p *RadiusProvider) Neighborhood(pos graph.Position) ([]*graph.Node, float64) {
	vertices := p.Registry.Vertices()
	if len(vertices) == 0 {
		return nil, 0
	}

	nearby := make([]*graph.Node, 0)
	for _, n := range vertices {
		if p.Exclude != nil && p.Exclude(n) {
			continue
		}
		if n.Placement().DistanceTo(pos) <= p.Radius {
			nearby = append(nearby, n)
		}
	}

	return nearby, float64(len(nearby)) / float64(len(vertices))
}

package visualization

import (
	"math/rand/v2"

	"github.com/dd0wney/cluso-antcluster/pkg/graph"
)

// RandomLayout scatters nodes uniformly inside the padded plane
type RandomLayout struct {
	config *LayoutConfig
}

// NewRandomLayout creates a new random layout
func NewRandomLayout(config *LayoutConfig) *RandomLayout {
	return &RandomLayout{config: config}
}

// ComputeLayout draws one position per node. The same seed and node order
// always give the same positions.
func (rl *RandomLayout) ComputeLayout(nodes []*graph.Node) (map[*graph.Node]graph.Position, error) {
	positions := make(map[*graph.Node]graph.Position, len(nodes))
	rng := rand.New(rand.NewPCG(rl.config.Seed, rl.config.Seed^0x9e3779b97f4a7c15))

	w := rl.config.Width - 2*rl.config.Padding
	h := rl.config.Height - 2*rl.config.Padding

	for _, n := range nodes {
		positions[n] = graph.Position{
			X: rng.Float64()*w + rl.config.Padding,
			Y: rng.Float64()*h + rl.config.Padding,
		}
	}

	return positions, nil
}

package visualization

import (
	"github.com/dd0wney/cluso-antcluster/pkg/graph"
)

// FeatureLayout places each node at its first two feature values, scaled
// to fill the padded plane. Nodes with a single feature sit on one line.
type FeatureLayout struct {
	config *LayoutConfig
}

// NewFeatureLayout creates a layout that projects features onto the plane
func NewFeatureLayout(config *LayoutConfig) *FeatureLayout {
	return &FeatureLayout{config: config}
}

// ComputeLayout projects every node and normalizes the result into bounds
func (fl *FeatureLayout) ComputeLayout(nodes []*graph.Node) (map[*graph.Node]graph.Position, error) {
	raw := make(map[*graph.Node]graph.Position, len(nodes))
	for _, n := range nodes {
		var pos graph.Position
		features := n.Features()
		if len(features) > 0 {
			pos.X = features[0]
		}
		if len(features) > 1 {
			pos.Y = features[1]
		}
		raw[n] = pos
	}

	return normalizePositions(raw, fl.config.Width, fl.config.Height, fl.config.Padding), nil
}

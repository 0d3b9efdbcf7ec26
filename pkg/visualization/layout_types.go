package visualization

import (
	"fmt"

	"github.com/dd0wney/cluso-antcluster/pkg/graph"
)

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width   float64 `yaml:"width" validate:"gt=0"`   // Plane width
	Height  float64 `yaml:"height" validate:"gt=0"`  // Plane height
	Padding float64 `yaml:"padding" validate:"gte=0"` // Padding from edges
	Seed    uint64  `yaml:"seed"`                     // Seed for randomized layouts
}

// Layout interface for different layout algorithms
type Layout interface {
	ComputeLayout(nodes []*graph.Node) (map[*graph.Node]graph.Position, error)
}

// ApplyLayout computes a layout and moves every node to its position.
func ApplyLayout(l Layout, nodes []*graph.Node) error {
	positions, err := l.ComputeLayout(nodes)
	if err != nil {
		return err
	}
	for n, pos := range positions {
		n.SetPlacement(pos)
	}
	return nil
}

// LayoutNames lists the names NewLayout accepts
var LayoutNames = []string{"random", "circular", "features"}

// NewLayout returns the layout registered under name. An empty name means
// "random".
func NewLayout(name string, config *LayoutConfig) (Layout, error) {
	switch name {
	case "", "random":
		return NewRandomLayout(config), nil
	case "circular":
		return NewCircularLayout(config), nil
	case "features":
		return NewFeatureLayout(config), nil
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}
}

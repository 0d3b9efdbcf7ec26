package graph

import "math"

// Position represents a 2D coordinate in the virtual plane
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p translated by (dx, dy).
func (p Position) Add(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// DistanceTo returns the planar Euclidean distance between two positions.
func (p Position) DistanceTo(q Position) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Row is the external record backing a node's feature vector.
// Implementations must return vectors of a fixed length.
type Row interface {
	Features() []float64
}

// FeatureRow is an in-memory Row.
type FeatureRow []float64

// Features implements Row.
func (r FeatureRow) Features() []float64 {
	return r
}

package colony

import "github.com/dd0wney/cluso-antcluster/pkg/graph"

// Selector picks the node to carry away from a neighborhood.
type Selector interface {
	Select(neighborhood []*graph.Node) *graph.Node
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(neighborhood []*graph.Node) *graph.Node

// Select calls f(neighborhood).
func (f SelectorFunc) Select(neighborhood []*graph.Node) *graph.Node {
	return f(neighborhood)
}

// Evaluator scores placing a node among a neighborhood; lower is better.
type Evaluator interface {
	Evaluate(n *graph.Node, neighborhood []*graph.Node) float64
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(n *graph.Node, neighborhood []*graph.Node) float64

// Evaluate calls f(n, neighborhood).
func (f EvaluatorFunc) Evaluate(n *graph.Node, neighborhood []*graph.Node) float64 {
	return f(n, neighborhood)
}

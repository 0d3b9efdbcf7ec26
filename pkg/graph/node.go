package graph

import (
	"sync"
	"sync/atomic"
)

var nextNodeID atomic.Uint64

// Node is a data point: a feature vector delegated to its Row, a placement
// in the 2D plane and an error annotation written by evaluators.
//
// Nodes compare by identity. Placement and error are guarded by a per-node
// lock so concurrent drops onto the same node are serialized.
type Node struct {
	id  uint64
	row Row

	mu        sync.RWMutex
	placement Position
	errScore  float64
}

// NewNode creates a node for row placed at the origin.
func NewNode(row Row) *Node {
	return NewNodeAt(row, Position{})
}

// NewNodeAt creates a node for row placed at pos.
func NewNodeAt(row Row, pos Position) *Node {
	return &Node{
		id:        nextNodeID.Add(1),
		row:       row,
		placement: pos,
	}
}

// ID returns the process-unique node identifier.
func (n *Node) ID() uint64 {
	return n.id
}

// Row returns the record the node represents.
func (n *Node) Row() Row {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.row
}

// SetRow replaces the record the node represents.
func (n *Node) SetRow(row Row) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.row = row
}

// Features returns the feature vector of the node's row, or nil when the
// node has no row.
func (n *Node) Features() []float64 {
	n.mu.RLock()
	row := n.row
	n.mu.RUnlock()

	if row == nil {
		return nil
	}
	return row.Features()
}

// Placement returns the node's location in the virtual plane.
func (n *Node) Placement() Position {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.placement
}

// SetPlacement moves the node in the virtual plane.
func (n *Node) SetPlacement(pos Position) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.placement = pos
}

// ErrorScore returns the error most recently assigned by an evaluator.
func (n *Node) ErrorScore() float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.errScore
}

// SetErrorScore records the error assigned by an evaluator.
func (n *Node) SetErrorScore(score float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errScore = score
}

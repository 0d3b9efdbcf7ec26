package graph

import "sync"

// Registry is a flat ownership registry of nodes indexed by identity.
// Iteration order is insertion order.
type Registry struct {
	mu    sync.RWMutex
	nodes map[uint64]*Node
	order []*Node
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes: make(map[uint64]*Node),
	}
}

// Add registers an existing node.
func (r *Registry) Add(n *Node) error {
	if n == nil {
		return NewError("add").Cause(ErrNilNode).Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodes[n.id]; exists {
		return NewError("add").Node(n.id).Cause(ErrDuplicateNode).Err()
	}
	r.nodes[n.id] = n
	r.order = append(r.order, n)
	return nil
}

// Create builds a node for row at pos and registers it.
func (r *Registry) Create(row Row, pos Position) *Node {
	n := NewNodeAt(row, pos)

	r.mu.Lock()
	r.nodes[n.id] = n
	r.order = append(r.order, n)
	r.mu.Unlock()

	return n
}

// Get returns the node with the given id.
func (r *Registry) Get(id uint64) (*Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.nodes[id]
	if !ok {
		return nil, NodeNotFoundError(id)
	}
	return n, nil
}

// Contains reports whether this exact node is registered.
func (r *Registry) Contains(n *Node) bool {
	if n == nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nodes[n.id] == n
}

// Remove unregisters the node with the given id.
func (r *Registry) Remove(id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.nodes[id]
	if !ok {
		return NewError("remove").Node(id).Cause(ErrNodeNotFound).Err()
	}
	delete(r.nodes, id)

	for i, candidate := range r.order {
		if candidate == n {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Vertices returns a snapshot of all registered nodes in insertion order.
func (r *Registry) Vertices() []*Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Node, len(r.order))
	copy(out, r.order)
	return out
}

// Clusters partitions every registered node by its nearest center.
// See AssignClusters.
func (r *Registry) Clusters(centers [][]float64) ([][]*Node, error) {
	return AssignClusters(r.Vertices(), centers)
}

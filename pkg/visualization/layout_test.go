package visualization

import (
	"math"
	"testing"

	"github.com/dd0wney/cluso-antcluster/pkg/graph"
)

func makeNodes(n int) []*graph.Node {
	nodes := make([]*graph.Node, n)
	for i := range nodes {
		nodes[i] = graph.NewNode(graph.FeatureRow{float64(i)})
	}
	return nodes
}

// TestRandomLayout tests that random positions stay inside the padded plane
func TestRandomLayout(t *testing.T) {
	nodes := makeNodes(200)
	layout := NewRandomLayout(&LayoutConfig{Width: 100, Height: 50, Padding: 5, Seed: 3})

	positions, err := layout.ComputeLayout(nodes)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	if len(positions) != len(nodes) {
		t.Errorf("Expected %d positions, got %d", len(nodes), len(positions))
	}

	for n, pos := range positions {
		if pos.X < 5 || pos.X > 95 {
			t.Errorf("Node %d X=%f out of bounds [5, 95]", n.ID(), pos.X)
		}
		if pos.Y < 5 || pos.Y > 45 {
			t.Errorf("Node %d Y=%f out of bounds [5, 45]", n.ID(), pos.Y)
		}
	}
}

func TestRandomLayoutDeterministic(t *testing.T) {
	nodes := makeNodes(20)
	cfg := &LayoutConfig{Width: 10, Height: 10, Seed: 42}

	first, _ := NewRandomLayout(cfg).ComputeLayout(nodes)
	second, _ := NewRandomLayout(cfg).ComputeLayout(nodes)

	for _, n := range nodes {
		if first[n] != second[n] {
			t.Fatalf("Node %d placed at %+v then %+v", n.ID(), first[n], second[n])
		}
	}
}

// TestCircularLayout tests circular layout algorithm
func TestCircularLayout(t *testing.T) {
	nodes := makeNodes(5)
	layout := NewCircularLayout(&LayoutConfig{
		Width:   400,
		Height:  400,
		Padding: 50,
	})

	positions, err := layout.ComputeLayout(nodes)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	// All nodes should sit on the radius-150 circle around the center
	center := graph.Position{X: 200, Y: 200}
	for _, n := range nodes {
		d := distance(positions[n], center)
		if math.Abs(d-150) > 1e-9 {
			t.Errorf("Node %d at distance %f, want 150", n.ID(), d)
		}
	}
}

// TestEmptyGraph tests layouts with no nodes
func TestEmptyGraph(t *testing.T) {
	cfg := &LayoutConfig{Width: 100, Height: 100}

	for _, name := range LayoutNames {
		layout, err := NewLayout(name, cfg)
		if err != nil {
			t.Fatalf("NewLayout(%q) error = %v", name, err)
		}
		positions, err := layout.ComputeLayout(nil)
		if err != nil {
			t.Fatalf("%s layout failed on empty input: %v", name, err)
		}
		if len(positions) != 0 {
			t.Errorf("%s layout returned %d positions, want 0", name, len(positions))
		}
	}

	if _, err := NewLayout("spiral", cfg); err == nil {
		t.Error("NewLayout accepted an unknown name")
	}
}

func TestApplyLayout(t *testing.T) {
	nodes := makeNodes(4)
	if err := ApplyLayout(NewCircularLayout(&LayoutConfig{Width: 20, Height: 20}), nodes); err != nil {
		t.Fatalf("ApplyLayout failed: %v", err)
	}

	// First node sits at angle 0
	if got := nodes[0].Placement(); math.Abs(got.X-20) > 1e-9 || math.Abs(got.Y-10) > 1e-9 {
		t.Errorf("first node at %+v, want {20 10}", got)
	}
}

func TestFeatureLayout(t *testing.T) {
	nodes := []*graph.Node{
		graph.NewNode(graph.FeatureRow{0, 0, 9}),
		graph.NewNode(graph.FeatureRow{5, 10, 9}),
		graph.NewNode(graph.FeatureRow{10, 5, 9}),
	}
	layout, err := NewLayout("features", &LayoutConfig{Width: 40, Height: 20, Padding: 2})
	if err != nil {
		t.Fatalf("NewLayout(features) error = %v", err)
	}
	if err := ApplyLayout(layout, nodes); err != nil {
		t.Fatalf("ApplyLayout failed: %v", err)
	}

	want := []graph.Position{{X: 2, Y: 2}, {X: 20, Y: 18}, {X: 38, Y: 10}}
	for i, n := range nodes {
		got := n.Placement()
		if math.Abs(got.X-want[i].X) > 1e-9 || math.Abs(got.Y-want[i].Y) > 1e-9 {
			t.Errorf("node %d at %+v, want %+v", i, got, want[i])
		}
	}
}

// TestLayoutNormalization tests that coordinates are normalized to bounds
func TestLayoutNormalization(t *testing.T) {
	nodes := makeNodes(3)
	positions := map[*graph.Node]graph.Position{
		nodes[0]: {X: -50, Y: 3},
		nodes[1]: {X: 0, Y: 8},
		nodes[2]: {X: 150, Y: 13},
	}

	normalized := normalizePositions(positions, 100, 100, 10)

	want := []graph.Position{{X: 10, Y: 10}, {X: 30, Y: 50}, {X: 90, Y: 90}}
	for i, n := range nodes {
		got := normalized[n]
		if math.Abs(got.X-want[i].X) > 1e-9 || math.Abs(got.Y-want[i].Y) > 1e-9 {
			t.Errorf("node %d at %+v, want %+v", i, got, want[i])
		}
	}
}

// TestSingleNodeLayout tests that a degenerate range does not divide by zero
func TestSingleNodeLayout(t *testing.T) {
	nodes := makeNodes(1)
	positions := map[*graph.Node]graph.Position{nodes[0]: {X: 7, Y: 7}}

	pos := normalizePositions(positions, 100, 100, 50)[nodes[0]]
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) {
		t.Fatalf("single node normalized to NaN: %+v", pos)
	}
	if pos.X != 50 || pos.Y != 50 {
		t.Errorf("single node at %+v, want {50 50}", pos)
	}
}

// Helper function to calculate distance between two positions
func distance(p1, p2 graph.Position) float64 {
	return p1.DistanceTo(p2)
}

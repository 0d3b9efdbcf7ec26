package colony

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-antcluster/pkg/graph"
	"github.com/dd0wney/cluso-antcluster/pkg/logging"
)

// scriptedSource replays fixed draws and counts how many were consumed.
type scriptedSource struct {
	draws []float64
	calls int
}

func (s *scriptedSource) Float64() float64 {
	v := s.draws[s.calls%len(s.draws)]
	s.calls++
	return v
}

func cluster(features ...[]float64) []*graph.Node {
	out := make([]*graph.Node, len(features))
	for i, f := range features {
		out[i] = graph.NewNode(graph.FeatureRow(f))
	}
	return out
}

func constEvaluator(v float64) Evaluator {
	return EvaluatorFunc(func(*graph.Node, []*graph.Node) float64 { return v })
}

func TestNewAntDefaults(t *testing.T) {
	a := NewAnt(graph.Position{X: 1, Y: 2})

	if a.IsHolding() || a.Holding() != nil {
		t.Error("new ant should be empty")
	}
	if a.State() != StateEmpty || a.State().String() != "empty" {
		t.Errorf("State() = %v", a.State())
	}
	if a.Position() != (graph.Position{X: 1, Y: 2}) {
		t.Errorf("Position() = %+v", a.Position())
	}
	if a.Params() != DefaultParams() {
		t.Errorf("Params() = %+v", a.Params())
	}
}

func TestPickupSelectsMostUnique(t *testing.T) {
	nb := cluster([]float64{0, 0}, []float64{0, 1}, []float64{9, 9})
	nb[2].SetErrorScore(4.5)

	a := NewAnt(graph.Position{X: 3, Y: 3}, WithSource(&scriptedSource{draws: []float64{0}}))
	ok, err := a.Pickup(nb, 0, 1, 1)
	if err != nil {
		t.Fatalf("Pickup() error = %v", err)
	}
	if !ok {
		t.Fatal("Pickup() = false with a zero draw")
	}
	if a.Holding() != nb[2] {
		t.Errorf("picked %v, want the outlier", a.Holding().Features())
	}
	if a.LastError() != 4.5 {
		t.Errorf("LastError() = %v, want 4.5", a.LastError())
	}
	if a.State() != StateHolding {
		t.Errorf("State() = %v, want holding", a.State())
	}
	if nb[2].Placement() != a.Position() {
		t.Errorf("carried node at %+v, ant at %+v", nb[2].Placement(), a.Position())
	}
}

func TestPickupWhileHoldingFails(t *testing.T) {
	src := &scriptedSource{draws: []float64{0}}
	a := NewAnt(graph.Position{}, WithSource(src))
	nb := cluster([]float64{0}, []float64{5})

	if ok, err := a.Pickup(nb, 0, 0, 0); !ok || err != nil {
		t.Fatalf("first Pickup() = (%v, %v)", ok, err)
	}
	held := a.Holding()
	drawsBefore := src.calls

	ok, err := a.Pickup(nb, 0, 0, 0)
	if ok {
		t.Error("Pickup() succeeded while holding")
	}
	if !errors.Is(err, ErrAlreadyHolding) || !errors.Is(err, ErrPreconditionViolation) {
		t.Errorf("Pickup() error = %v, want ErrAlreadyHolding", err)
	}
	if a.Holding() != held {
		t.Error("held node changed after failed pickup")
	}
	if src.calls != drawsBefore {
		t.Error("precondition failure consumed a random draw")
	}
}

func TestPickupSmallNeighborhoodIsNoop(t *testing.T) {
	tests := []struct {
		name string
		nb   []*graph.Node
	}{
		{"nil", nil},
		{"empty", []*graph.Node{}},
		{"single", cluster([]float64{1})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &scriptedSource{draws: []float64{0}}
			a := NewAnt(graph.Position{}, WithSource(src))

			ok, err := a.Pickup(tt.nb, 0, 0, 0)
			if ok || err != nil {
				t.Errorf("Pickup() = (%v, %v), want (false, nil)", ok, err)
			}
			if a.IsHolding() {
				t.Error("ant holds a node after no-op pickup")
			}
			if src.calls != 1 {
				t.Errorf("consumed %d draws, want 1", src.calls)
			}
		})
	}
}

func TestPickupRejectedByDraw(t *testing.T) {
	a := NewAnt(graph.Position{}, WithSource(&scriptedSource{draws: []float64{0.99}}))
	nb := cluster([]float64{0}, []float64{1}, []float64{2})

	// p = (0.1 / 0.11)^2 ~ 0.83
	ok, err := a.Pickup(nb, 0.1, 0, 0)
	if ok || err != nil {
		t.Errorf("Pickup() = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestPickupNilSelection(t *testing.T) {
	a := NewAnt(graph.Position{},
		WithSource(&scriptedSource{draws: []float64{0}}),
		WithSelector(SelectorFunc(func([]*graph.Node) *graph.Node { return nil })),
	)

	ok, err := a.Pickup(cluster([]float64{0}, []float64{1}), 0, 0, 0)
	if ok || err != nil || a.IsHolding() {
		t.Errorf("Pickup() with nil selection = (%v, %v), holding=%v", ok, err, a.IsHolding())
	}
}

func TestInvalidDensity(t *testing.T) {
	for _, density := range []float64{-0.01, math.Inf(-1), math.Inf(1), math.NaN()} {
		a := NewAnt(graph.Position{}, WithSource(&scriptedSource{draws: []float64{0}}))
		nb := cluster([]float64{0}, []float64{1})

		if _, err := a.Pickup(nb, density, 0, 0); !errors.Is(err, ErrInvalidDensity) {
			t.Errorf("Pickup(density=%v) error = %v, want ErrInvalidDensity", density, err)
		}

		if ok, _ := a.Pickup(nb, 0, 0, 0); !ok {
			t.Fatal("setup pickup failed")
		}
		if _, err := a.Drop(nb, density, 0, 0); !errors.Is(err, ErrPreconditionViolation) {
			t.Errorf("Drop(density=%v) error = %v, want precondition violation", density, err)
		}
	}
}

func TestDropAtHugeDensity(t *testing.T) {
	src := &scriptedSource{draws: []float64{0}}
	a := NewAnt(graph.Position{X: 3}, WithSource(src), WithEvaluator(constEvaluator(-1)))
	nb := cluster([]float64{0}, []float64{1})

	if ok, err := a.Pickup(nb, 0, 0, 0); !ok || err != nil {
		t.Fatalf("setup pickup = (%v, %v)", ok, err)
	}
	if p := a.DropProbability(math.MaxFloat64); p != 1 {
		t.Errorf("DropProbability(MaxFloat64) = %v, want 1", p)
	}

	ok, err := a.Drop(nb, 1e300, 0, 0)
	if !ok || err != nil {
		t.Errorf("Drop(density=1e300) = (%v, %v), want accepted", ok, err)
	}
}

func TestDropWhileEmptyFails(t *testing.T) {
	src := &scriptedSource{draws: []float64{0}}
	a := NewAnt(graph.Position{}, WithSource(src))

	ok, err := a.Drop(cluster([]float64{0}, []float64{1}), 1, 0, 0)
	if ok {
		t.Error("Drop() succeeded while empty")
	}
	if !errors.Is(err, ErrNotHolding) || !errors.Is(err, ErrPreconditionViolation) {
		t.Errorf("Drop() error = %v, want ErrNotHolding", err)
	}
	if src.calls != 0 {
		t.Error("precondition failure consumed a random draw")
	}
}

func TestDropWorseRejectedWithoutAcceptWorse(t *testing.T) {
	params := DefaultParams()
	params.AcceptWorseProbability = 0

	a := NewAnt(graph.Position{},
		WithParams(params),
		WithSource(&scriptedSource{draws: []float64{0}}),
		WithEvaluator(constEvaluator(10)),
	)

	nb := cluster([]float64{0}, []float64{1})
	nb[0].SetErrorScore(1)
	nb[1].SetErrorScore(1)
	if ok, _ := a.Pickup(nb, 0, 0, 0); !ok {
		t.Fatal("setup pickup failed")
	}
	held := a.Holding()

	for i := 0; i < 20; i++ {
		ok, err := a.Drop(cluster([]float64{5}, []float64{6}), 100, 0, 0)
		if err != nil {
			t.Fatalf("Drop() error = %v", err)
		}
		if ok {
			t.Fatal("Drop() accepted a worse placement with accept-worse 0")
		}
	}
	if a.Holding() != held || a.State() != StateHolding {
		t.Error("ant no longer holds the same node")
	}
	if held.ErrorScore() != 1 {
		t.Errorf("rejected drop changed error score to %v", held.ErrorScore())
	}
}

func TestDropAcceptsImprovement(t *testing.T) {
	a := NewAnt(graph.Position{},
		WithSource(&scriptedSource{draws: []float64{0}}),
		WithEvaluator(constEvaluator(0.5)),
	)

	nb := cluster([]float64{0}, []float64{1})
	nb[0].SetErrorScore(2)
	nb[1].SetErrorScore(2)
	if ok, _ := a.Pickup(nb, 0, 0, 0); !ok {
		t.Fatal("setup pickup failed")
	}
	held := a.Holding()
	a.Move(4, -2)

	ok, err := a.Drop(nb, 1, 0, 0)
	if err != nil || !ok {
		t.Fatalf("Drop() = (%v, %v), want (true, nil)", ok, err)
	}
	if a.IsHolding() {
		t.Error("ant still holding after drop")
	}
	if held.ErrorScore() != 0.5 {
		t.Errorf("dropped node error = %v, want 0.5", held.ErrorScore())
	}
	if held.Placement() != (graph.Position{X: 4, Y: -2}) {
		t.Errorf("dropped node at %+v, want ant position", held.Placement())
	}
}

func TestDropAcceptWorseEscape(t *testing.T) {
	// draws: pickup, drop density, accept-worse
	src := &scriptedSource{draws: []float64{0, 0, 0.01}}
	a := NewAnt(graph.Position{}, WithSource(src), WithEvaluator(constEvaluator(99)))

	nb := cluster([]float64{0}, []float64{1})
	if ok, _ := a.Pickup(nb, 0, 0, 0); !ok {
		t.Fatal("setup pickup failed")
	}

	ok, err := a.Drop(nb, 1, 0, 0)
	if err != nil || !ok {
		t.Fatalf("Drop() = (%v, %v), want accepted by accept-worse draw", ok, err)
	}
	if src.calls != 3 {
		t.Errorf("consumed %d draws, want 3", src.calls)
	}
}

func TestDropImprovementSkipsSecondDraw(t *testing.T) {
	src := &scriptedSource{draws: []float64{0}}
	a := NewAnt(graph.Position{}, WithSource(src), WithEvaluator(constEvaluator(-1)))

	if ok, _ := a.Pickup(cluster([]float64{0}, []float64{1}), 0, 0, 0); !ok {
		t.Fatal("setup pickup failed")
	}
	if ok, _ := a.Drop(nil, 1, 0, 0); !ok {
		t.Fatal("Drop() rejected an improvement")
	}
	if src.calls != 2 {
		t.Errorf("consumed %d draws, want 2", src.calls)
	}
}

func TestDropRejectedByDensityDrawSkipsEvaluation(t *testing.T) {
	evaluated := false
	a := NewAnt(graph.Position{},
		WithSource(&scriptedSource{draws: []float64{0, 0.5}}),
		WithEvaluator(EvaluatorFunc(func(*graph.Node, []*graph.Node) float64 {
			evaluated = true
			return 0
		})),
	)

	if ok, _ := a.Pickup(cluster([]float64{0}, []float64{1}), 0, 0, 0); !ok {
		t.Fatal("setup pickup failed")
	}

	// density 0 gives drop probability 0
	ok, err := a.Drop(cluster([]float64{0}), 0, 0, 0)
	if ok || err != nil {
		t.Errorf("Drop() = (%v, %v), want (false, nil)", ok, err)
	}
	if evaluated {
		t.Error("evaluator called although the density draw failed")
	}
	if !a.IsHolding() {
		t.Error("ant lost its node")
	}
}

func TestMoveCarriesHeldNode(t *testing.T) {
	a := NewAnt(graph.Position{X: 1, Y: 1}, WithSource(&scriptedSource{draws: []float64{0}}))

	a.Move(2, 3)
	if a.Position() != (graph.Position{X: 3, Y: 4}) {
		t.Errorf("Position() = %+v", a.Position())
	}
	if a.LastMove() != (graph.Position{X: 2, Y: 3}) {
		t.Errorf("LastMove() = %+v", a.LastMove())
	}

	nb := cluster([]float64{0}, []float64{1})
	if ok, _ := a.Pickup(nb, 0, 0, 0); !ok {
		t.Fatal("setup pickup failed")
	}
	a.Move(-1, 0)
	if a.Holding().Placement() != (graph.Position{X: 2, Y: 4}) {
		t.Errorf("held node at %+v, want {2 4}", a.Holding().Placement())
	}
}

func TestAlphaBetaAreInert(t *testing.T) {
	run := func(alpha, beta float64) []bool {
		a := NewAnt(graph.Position{})
		nb := cluster([]float64{0}, []float64{3}, []float64{7})
		var out []bool
		for i := 0; i < 50; i++ {
			var ok bool
			if a.IsHolding() {
				ok, _ = a.Drop(nb, 0.4, alpha, beta)
			} else {
				ok, _ = a.Pickup(nb, 0.05, alpha, beta)
			}
			out = append(out, ok)
		}
		return out
	}

	base := run(0, 0)
	other := run(5, -3)
	for i := range base {
		if base[i] != other[i] {
			t.Fatalf("outcome %d differs when alpha/beta change", i)
		}
	}
}

// The default seed must replay the reference draws 0.1606..., 0.7297...,
// 0.7211..., 0.3274...
func TestDefaultSeedDecisionSequence(t *testing.T) {
	a := NewAnt(graph.Position{})
	nb := cluster([]float64{0, 0}, []float64{0, 1}, []float64{8, 8})
	for _, n := range nb {
		n.SetErrorScore(10)
	}

	// p = (0.1/0.21)^2 ~ 0.227 >= 0.1606
	if ok, err := a.Pickup(nb, 0.2, 0, 0); !ok || err != nil {
		t.Fatalf("step 1 Pickup() = (%v, %v), want true", ok, err)
	}
	if a.Holding() != nb[2] {
		t.Fatal("step 1 picked the wrong node")
	}

	// p = (0.5/0.53)^2 ~ 0.89 >= 0.7297, error improves
	target := cluster([]float64{8, 9}, []float64{9, 8})
	if ok, err := a.Drop(target, 0.5, 0, 0); !ok || err != nil {
		t.Fatalf("step 2 Drop() = (%v, %v), want true", ok, err)
	}

	// p ~ 0.227 < 0.7211
	if ok, _ := a.Pickup(nb, 0.2, 0, 0); ok {
		t.Fatal("step 3 Pickup() = true, want false")
	}

	// p = 1 >= 0.3274
	if ok, _ := a.Pickup(nb, 0, 0, 0); !ok {
		t.Fatal("step 4 Pickup() = false, want true")
	}
}

func TestAntLogsDecisions(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.DebugLevel)

	a := NewAnt(graph.Position{},
		WithID(7),
		WithLogger(logger),
		WithSource(&scriptedSource{draws: []float64{0}}),
		WithEvaluator(constEvaluator(-1)),
	)
	nb := cluster([]float64{0}, []float64{1})
	a.Pickup(nb, 0, 0, 0)
	a.Drop(nb, 1, 0, 0)

	out := buf.String()
	if !strings.Contains(out, "picked up node") || !strings.Contains(out, "dropped node") {
		t.Errorf("missing decision logs: %s", out)
	}
	if !strings.Contains(out, `"ant_id":7`) {
		t.Errorf("ant id not logged: %s", out)
	}
}

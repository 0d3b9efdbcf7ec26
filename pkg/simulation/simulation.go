package simulation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-antcluster/pkg/colony"
	"github.com/dd0wney/cluso-antcluster/pkg/graph"
	"github.com/dd0wney/cluso-antcluster/pkg/heuristics"
	"github.com/dd0wney/cluso-antcluster/pkg/logging"
	"github.com/dd0wney/cluso-antcluster/pkg/metrics"
	"github.com/dd0wney/cluso-antcluster/pkg/visualization"
)

// ErrNoNodes is returned by New when the registry is empty
var ErrNoNodes = errors.New("simulation: registry has no nodes")

// Simulation drives a colony of ants over the nodes of a registry. All ants
// act sequentially on a single goroutine.
type Simulation struct {
	cfg      *Config
	registry *graph.Registry
	ants     []*colony.Ant
	provider *heuristics.RadiusProvider
	carried  map[*graph.Node]bool
	rng      *rand.Rand

	evaluator    colony.Evaluator
	logger       logging.Logger
	metrics      *metrics.Registry
	presentation *visualization.Presentation

	runID     string
	iteration int
	stats     Stats

	// mirrors of iteration and carried for readers on other goroutines
	liveIteration atomic.Int64
	liveCarried   atomic.Int64
	finished      atomic.Bool
}

// Option configures a Simulation
type Option func(*Simulation)

// WithLogger sets the logger; ants log through a child of it.
func WithLogger(l logging.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithMetrics records decisions and evaluations into r.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Simulation) { s.metrics = r }
}

// WithPresentation colors nodes on evaluation and in snapshots.
func WithPresentation(p *visualization.Presentation) Option {
	return func(s *Simulation) { s.presentation = p }
}

// WithRunID replaces the generated run id.
func WithRunID(id string) Option {
	return func(s *Simulation) { s.runID = id }
}

// WithEvaluator replaces heuristics.MeanDistance for both the ants and
// AnnotateErrors.
func WithEvaluator(e colony.Evaluator) Option {
	return func(s *Simulation) { s.evaluator = e }
}

// New lays out the registry's nodes on the plane and places cfg.Ants ants.
func New(cfg *Config, registry *graph.Registry, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if registry == nil || registry.Len() == 0 {
		return nil, ErrNoNodes
	}

	s := &Simulation{
		cfg:          cfg,
		registry:     registry,
		carried:      make(map[*graph.Node]bool),
		rng:          rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5851f42d4c957f2d)),
		evaluator:    colony.EvaluatorFunc(heuristics.MeanDistance),
		logger:       logging.NewNopLogger(),
		presentation: visualization.NewPresentation(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	s.logger = s.logger.With(logging.Component("simulation"), logging.RunID(s.runID))

	layout, err := visualization.NewLayout(cfg.Layout, &cfg.Plane)
	if err != nil {
		return nil, err
	}
	if err := visualization.ApplyLayout(layout, registry.Vertices()); err != nil {
		return nil, fmt.Errorf("initial layout: %w", err)
	}

	s.provider = heuristics.NewRadiusProvider(registry, cfg.Radius)
	s.provider.Exclude = func(n *graph.Node) bool { return s.carried[n] }

	antLogger := s.logger.With(logging.Component("colony"))
	s.ants = make([]*colony.Ant, cfg.Ants)
	for i := range s.ants {
		pos := graph.Position{
			X: s.rng.Float64() * cfg.Plane.Width,
			Y: s.rng.Float64() * cfg.Plane.Height,
		}
		s.ants[i] = colony.NewAnt(pos,
			colony.WithID(i),
			colony.WithParams(cfg.Colony),
			colony.WithSeed(cfg.AntSeed+int64(i)),
			colony.WithEvaluator(s.evaluator),
			colony.WithLogger(antLogger),
		)
	}

	if s.metrics != nil {
		s.metrics.UpdateColony(registry.Len(), len(s.ants))
	}

	return s, nil
}

// AnnotateErrors gives every node the error it has at its current
// placement, so the first pickups compare against a meaningful value.
func (s *Simulation) AnnotateErrors() {
	for _, n := range s.registry.Vertices() {
		nb, _ := s.provider.Neighborhood(n.Placement())
		n.SetErrorScore(s.evaluator.Evaluate(n, nb))
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// move takes a random step blended with the ant's previous one and keeps
// the ant on the plane.
func (s *Simulation) move(a *colony.Ant) {
	last := a.LastMove()
	m := s.cfg.Momentum
	dx := m*last.X + (1-m)*(s.rng.Float64()*2-1)*s.cfg.StepSize
	dy := m*last.Y + (1-m)*(s.rng.Float64()*2-1)*s.cfg.StepSize

	pos := a.Position()
	x := clamp(pos.X+dx, 0, s.cfg.Plane.Width)
	y := clamp(pos.Y+dy, 0, s.cfg.Plane.Height)
	a.Move(x-pos.X, y-pos.Y)
}

// Step runs one iteration: every ant moves, looks at its neighborhood and
// then tries to drop its node or pick one up.
func (s *Simulation) Step() error {
	start := time.Now()
	var errs []error

	for _, a := range s.ants {
		s.move(a)
		nb, density := s.provider.Neighborhood(a.Position())

		if held := a.Holding(); held != nil {
			ok, err := a.Drop(nb, density, s.cfg.Alpha, s.cfg.Beta)
			s.recordDrop(ok, err)
			if ok {
				delete(s.carried, held)
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("ant %d: %w", a.ID(), err))
			}
			continue
		}

		if s.metrics != nil {
			s.metrics.PickupProbability.Observe(a.PickupProbability(density))
		}
		ok, err := a.Pickup(nb, density, s.cfg.Alpha, s.cfg.Beta)
		s.recordPickup(ok, err)
		if ok {
			s.carried[a.Holding()] = true
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("ant %d: %w", a.ID(), err))
		}
	}

	s.iteration++
	s.stats.Carried = len(s.carried)
	s.liveIteration.Store(int64(s.iteration))
	s.liveCarried.Store(int64(len(s.carried)))
	if s.metrics != nil {
		s.metrics.RecordIteration(time.Since(start), len(s.carried))
	}

	err := errors.Join(errs...)
	if err != nil {
		s.logger.Warn("ant decisions failed",
			logging.Iteration(s.iteration),
			logging.Count(len(errs)),
			logging.Error(err),
		)
	}
	return err
}

func (s *Simulation) recordPickup(ok bool, err error) {
	switch {
	case err != nil:
		s.stats.Errors++
	case ok:
		s.stats.Pickups++
	default:
		s.stats.PickupsRejected++
	}
	if s.metrics != nil {
		s.metrics.RecordPickup(ok, err)
	}
}

func (s *Simulation) recordDrop(ok bool, err error) {
	switch {
	case err != nil:
		s.stats.Errors++
	case ok:
		s.stats.Drops++
	default:
		s.stats.DropsRejected++
	}
	if s.metrics != nil {
		s.metrics.RecordDrop(ok, err)
	}
}

// Run annotates errors and steps cfg.Iterations times. Cancellation is
// checked between iterations; a canceled run returns its partial Result
// together with ctx.Err().
func (s *Simulation) Run(ctx context.Context) (*Result, error) {
	timer := logging.StartTimer(s.logger, "colony run",
		logging.Count(s.registry.Len()),
		logging.Int("ants", len(s.ants)),
		logging.Int("iterations", s.cfg.Iterations),
	)
	s.logger.Info("starting colony run",
		logging.Count(s.registry.Len()),
		logging.Int("ants", len(s.ants)),
	)

	s.AnnotateErrors()
	startIter := s.iteration
	s.finished.Store(false)

	result := &Result{RunID: s.runID}
	var runErr error
	for i := 0; i < s.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("colony run canceled", logging.Iteration(s.iteration))
			result.Canceled = true
			runErr = err
			break
		}
		if err := s.Step(); err != nil {
			runErr = err
			break
		}
	}

	result.Iterations = s.iteration - startIter
	s.finished.Store(true)
	result.Stats = s.stats
	result.Duration = timer.Elapsed()

	if runErr != nil {
		timer.EndError(runErr)
		return result, runErr
	}
	timer.End(
		logging.Int("pickups", s.stats.Pickups),
		logging.Int("drops", s.stats.Drops),
		logging.Int("carried", s.stats.Carried),
	)
	return result, nil
}

// Evaluate assigns every node to its nearest center, records the result in
// the metrics and colors the presentation by cluster.
func (s *Simulation) Evaluate(centers [][]float64) (*Evaluation, error) {
	clusters, err := s.registry.Clusters(centers)
	if err != nil {
		return nil, err
	}
	sse, err := graph.SumSquaredError(clusters, centers)
	if err != nil {
		return nil, err
	}

	eval := &Evaluation{Centers: centers, Clusters: clusters, SSE: sse}
	s.presentation.ColorClusters(clusters)
	if s.metrics != nil {
		s.metrics.RecordEvaluation(eval.Sizes(), sse)
	}

	s.logger.Info("evaluated clusters",
		logging.Count(len(centers)),
		logging.Float64("sse", sse),
		logging.Any("sizes", eval.Sizes()),
	)
	return eval, nil
}

// Snapshot captures the current plane for export or rendering.
func (s *Simulation) Snapshot() *visualization.Frame {
	f := visualization.NewFrame(s.registry.Vertices(), s.ants, s.presentation, s.cfg.Plane.Width, s.cfg.Plane.Height)
	f.RunID = s.runID
	f.Iteration = s.iteration
	return f
}

// Ants returns the colony in id order
func (s *Simulation) Ants() []*colony.Ant {
	return s.ants
}

// Registry returns the nodes the colony works on
func (s *Simulation) Registry() *graph.Registry {
	return s.registry
}

// Config returns the validated configuration
func (s *Simulation) Config() *Config {
	return s.cfg
}

// RunID identifies the run in logs, metrics and frames
func (s *Simulation) RunID() string {
	return s.runID
}

// Iteration is the number of completed steps
func (s *Simulation) Iteration() int {
	return s.iteration
}

// Progress is safe to call while Run executes on another goroutine.
func (s *Simulation) Progress() Progress {
	return Progress{
		Iteration: int(s.liveIteration.Load()),
		Carried:   int(s.liveCarried.Load()),
		Ants:      len(s.ants),
		Finished:  s.finished.Load(),
	}
}

// Stats returns the decision counts so far
func (s *Simulation) Stats() Stats {
	return s.stats
}

// Presentation returns the color layer used by Evaluate and Snapshot
func (s *Simulation) Presentation() *visualization.Presentation {
	return s.presentation
}

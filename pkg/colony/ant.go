package colony

import (
	"math"

	"github.com/dd0wney/cluso-antcluster/pkg/graph"
	"github.com/dd0wney/cluso-antcluster/pkg/heuristics"
	"github.com/dd0wney/cluso-antcluster/pkg/logging"
)

// State is the ant's position in its two-state machine.
type State int

const (
	StateEmpty State = iota
	StateHolding
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateHolding:
		return "holding"
	default:
		return "unknown"
	}
}

// Ant is a stochastic agent carrying at most one node.
//
// An Ant is not safe for concurrent use; a driver that runs ants in
// parallel must give each goroutine its own ants.
type Ant struct {
	id        int
	position  graph.Position
	lastMove  graph.Position
	holding   *graph.Node
	lastError float64

	params    Params
	rand      Source
	selector  Selector
	evaluator Evaluator
	logger    logging.Logger
}

// Option configures an Ant.
type Option func(*Ant)

// WithID sets the identifier used in logs.
func WithID(id int) Option {
	return func(a *Ant) { a.id = id }
}

// WithParams overrides DefaultParams.
func WithParams(p Params) Option {
	return func(a *Ant) { a.params = p }
}

// WithSeed gives the ant a JavaRandom generator with the given seed.
func WithSeed(seed int64) Option {
	return func(a *Ant) { a.rand = NewJavaRandom(seed) }
}

// WithSource gives the ant its own random source. The source must not be
// shared with any other ant.
func WithSource(src Source) Option {
	return func(a *Ant) { a.rand = src }
}

// WithSelector overrides the most-unique selector.
func WithSelector(s Selector) Option {
	return func(a *Ant) { a.selector = s }
}

// WithEvaluator overrides the mean-distance placement evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(a *Ant) { a.evaluator = e }
}

// WithLogger sets the logger for pickup and drop events.
func WithLogger(l logging.Logger) Option {
	return func(a *Ant) { a.logger = l }
}

// NewAnt creates an empty ant at pos. Without options it uses DefaultParams,
// a JavaRandom seeded with DefaultSeed, heuristics.MostUnique and
// heuristics.MeanDistance.
func NewAnt(pos graph.Position, opts ...Option) *Ant {
	a := &Ant{
		position:  pos,
		params:    DefaultParams(),
		selector:  SelectorFunc(heuristics.MostUnique),
		evaluator: EvaluatorFunc(heuristics.MeanDistance),
		logger:    logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rand == nil {
		a.rand = NewJavaRandom(DefaultSeed)
	}
	return a
}

func checkDensity(density float64) error {
	if math.IsNaN(density) || math.IsInf(density, 1) || density < 0 {
		return ErrInvalidDensity
	}
	return nil
}

// Pickup tries to pick up the most dissimilar node of neighborhood.
//
// One draw is always consumed, even when the neighborhood is too small to
// pick from. alpha and beta are accepted for interface compatibility and
// do not influence the decision.
func (a *Ant) Pickup(neighborhood []*graph.Node, density, alpha, beta float64) (bool, error) {
	if a.holding != nil {
		return false, ErrAlreadyHolding
	}
	if err := checkDensity(density); err != nil {
		return false, err
	}

	r := a.rand.Float64()
	p := a.params.PickupProbability(density)
	if !(r <= p) || len(neighborhood) <= 1 {
		return false, nil
	}

	selected := a.selector.Select(neighborhood)
	if selected == nil {
		return false, nil
	}

	a.lastError = selected.ErrorScore()
	a.holding = selected
	selected.SetPlacement(a.position)

	a.logger.Debug("picked up node",
		logging.AntID(a.id),
		logging.NodeID(selected.ID()),
		logging.Density(density),
		logging.Probability(p),
		logging.Float64("last_error", a.lastError),
	)
	return true, nil
}

// Drop tries to put the held node down among neighborhood.
//
// After the density draw succeeds, the drop is accepted if the node's
// error in this neighborhood is strictly lower than when it was picked up;
// otherwise a second draw accepts it with AcceptWorseProbability. On
// acceptance the node is placed at the ant's position and its error score
// is updated. alpha and beta do not influence the decision.
func (a *Ant) Drop(neighborhood []*graph.Node, density, alpha, beta float64) (bool, error) {
	if a.holding == nil {
		return false, ErrNotHolding
	}
	if err := checkDensity(density); err != nil {
		return false, err
	}

	p := a.params.DropProbability(density)
	if !(a.rand.Float64() <= p) {
		return false, nil
	}

	newError := a.evaluator.Evaluate(a.holding, neighborhood)
	improved := newError < a.lastError
	if !improved && !(a.rand.Float64() < a.params.AcceptWorseProbability) {
		a.logger.Debug("drop rejected",
			logging.AntID(a.id),
			logging.NodeID(a.holding.ID()),
			logging.Float64("new_error", newError),
			logging.Float64("last_error", a.lastError),
		)
		return false, nil
	}

	dropped := a.holding
	dropped.SetPlacement(a.position)
	dropped.SetErrorScore(newError)
	a.holding = nil

	a.logger.Debug("dropped node",
		logging.AntID(a.id),
		logging.NodeID(dropped.ID()),
		logging.Density(density),
		logging.Probability(p),
		logging.Bool("improved", improved),
		logging.Float64("new_error", newError),
	)
	return true, nil
}

// Move displaces the ant by (dx, dy). A held node travels with it.
func (a *Ant) Move(dx, dy float64) {
	a.lastMove = graph.Position{X: dx, Y: dy}
	a.position = a.position.Add(dx, dy)
	if a.holding != nil {
		a.holding.SetPlacement(a.position)
	}
}

// PickupProbability is the chance of a pickup attempt at density.
func (a *Ant) PickupProbability(density float64) float64 {
	return a.params.PickupProbability(density)
}

// DropProbability is the chance of a drop attempt at density.
func (a *Ant) DropProbability(density float64) float64 {
	return a.params.DropProbability(density)
}

// IsHolding reports whether the ant carries a node.
func (a *Ant) IsHolding() bool {
	return a.holding != nil
}

// Holding returns the carried node, or nil.
func (a *Ant) Holding() *graph.Node {
	return a.holding
}

// State returns StateHolding or StateEmpty.
func (a *Ant) State() State {
	if a.holding != nil {
		return StateHolding
	}
	return StateEmpty
}

// ID returns the identifier set with WithID.
func (a *Ant) ID() int {
	return a.id
}

// Position returns the ant's location in the virtual plane.
func (a *Ant) Position() graph.Position {
	return a.position
}

// LastMove returns the displacement of the most recent Move.
func (a *Ant) LastMove() graph.Position {
	return a.lastMove
}

// Params returns the gains the ant decides with
func (a *Ant) Params() Params {
	return a.params
}

// LastError is the carried node's error when it was picked up.
func (a *Ant) LastError() float64 {
	return a.lastError
}

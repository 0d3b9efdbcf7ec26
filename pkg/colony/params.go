package colony

import (
	"math"

	"github.com/dd0wney/cluso-antcluster/pkg/validation"
)

// Params are the tunable constants of the pickup/drop rules.
type Params struct {
	// PickupGain (Gp) scales PickupProbability.
	PickupGain float64 `yaml:"pickup_gain" validate:"gt=0"`
	// DropGain (Gd) scales DropProbability.
	DropGain float64 `yaml:"drop_gain" validate:"gt=0"`
	// AcceptWorseProbability is the chance a drop that does not lower the
	// node's error is accepted anyway.
	AcceptWorseProbability float64 `yaml:"accept_worse_probability" validate:"gte=0,lte=1"`
}

// DefaultParams returns gains tuned for densities expressed as the fraction
// of all nodes found in a neighborhood.
func DefaultParams() Params {
	return Params{
		PickupGain:             0.1,
		DropGain:               0.3,
		AcceptWorseProbability: 0.05,
	}
}

// Validate reports every out-of-range parameter.
func (p Params) Validate() error {
	return validation.NewConfigValidator("Params").
		PositiveFloat("pickup_gain", p.PickupGain).
		PositiveFloat("drop_gain", p.DropGain).
		Probability("accept_worse_probability", p.AcceptWorseProbability).
		Validate()
}

// PickupProbability returns min(1, (Gp / (Gp/10 + density))^2).
// It is 1 for empty regions and decays as the region fills up.
func (p Params) PickupProbability(density float64) float64 {
	v := p.PickupGain / (p.PickupGain/10 + density)
	return math.Min(1, v*v)
}

// DropProbability returns (density / (Gd/10 + density))^2.
// It is 0 for empty regions and approaches 1 as the region fills up.
func (p Params) DropProbability(density float64) float64 {
	v := density / (p.DropGain/10 + density)
	return v * v
}

package colony

import (
	"errors"
	"fmt"
)

// ErrPreconditionViolation is wrapped by every error returned for a call
// made in the wrong state or with malformed input.
var ErrPreconditionViolation = errors.New("precondition violation")

var (
	ErrAlreadyHolding = fmt.Errorf("%w: ant is already holding a node", ErrPreconditionViolation)
	ErrNotHolding     = fmt.Errorf("%w: ant is not holding a node", ErrPreconditionViolation)
	ErrInvalidDensity = fmt.Errorf("%w: density must be a finite non-negative number", ErrPreconditionViolation)
)

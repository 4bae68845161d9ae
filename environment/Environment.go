// Package environment outlines the interfaces and specifications needed
// to implement concrete environments
package environment

import (
	"errors"

	"sfneuman.com/rldemos/timestep"
)

// Errors returned by environment constructors and Step methods. They
// are correctness guards raised synchronously at the point of
// violation: callers must Reset or reconstruct, never retry.
var (
	// ErrInvalidArgument indicates an out-of-range or malformed
	// argument, such as an action index outside the action space
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState indicates an operation that is illegal in the
	// environment's current state, such as stepping a finished episode
	ErrInvalidState = errors.New("invalid state")

	// ErrConfiguration indicates an environment description that can
	// never be valid, such as a grid without a start or goal cell
	ErrConfiguration = errors.New("invalid configuration")
)

// Environment implements a simulated environment with a discrete,
// integer-indexed action space. Actions are indices in
// [0, ActionSpec().UpperBound.AtVec(0)], and observations are one-hot
// encodings of the flattened state index.
type Environment interface {
	// Reset resets the environment between episodes
	Reset() (timestep.TimeStep, error)

	// Step takes one environmental step given an action index and
	// returns the next timestep and whether the episode has ended
	Step(action int) (timestep.TimeStep, bool, error)

	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}

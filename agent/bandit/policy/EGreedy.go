package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	"sfneuman.com/rldemos/environment"
	"sfneuman.com/rldemos/utils/matutils"
)

// EGreedy implements the ε-greedy action-selection strategy. With
// probability epsilon an arm is chosen uniformly at random; otherwise
// the arm with the highest running value estimate is chosen, ties
// broken toward the lowest index.
//
// EGreedy applies this rule from the very first step. There is no
// warm-up phase: estimates start at zero, so the first greedy selection
// is the tie-break toward arm 0.
type EGreedy struct {
	epsilon   float64
	estimates *mat.VecDense
	counts    []int
	seed      rand.Source
}

// NewEGreedy constructs a new EGreedy policy over arms arms, where
// epsilon is the probability with which a random arm is selected and
// seed seeds the exploration draws
func NewEGreedy(arms int, epsilon float64, seed uint64) (*EGreedy, error) {
	if arms < 1 {
		return nil, fmt.Errorf("newEGreedy: arms = %d < 1: %w", arms,
			environment.ErrInvalidArgument)
	}
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("newEGreedy: epsilon = %v not in [0, 1]: %w",
			epsilon, environment.ErrInvalidArgument)
	}

	source := rand.NewSource(seed)

	return &EGreedy{
		epsilon:   epsilon,
		estimates: mat.NewVecDense(arms, nil),
		counts:    make([]int, arms),
		seed:      source,
	}, nil
}

// SelectAction selects an arm from the ε-greedy policy
func (e *EGreedy) SelectAction() int {
	arms := e.estimates.Len()

	// Find the greedy arm
	greedyAction := matutils.MaxVec(e.estimates)

	// Calculate the ε probability of choosing any arm at random
	prob := e.epsilon / float64(arms)
	actionProbabilities := make([]float64, arms)
	for i := 0; i < arms; i++ {
		actionProbabilities[i] = prob
	}

	// Adjust the probability of choosing the greedy arm
	actionProbabilities[greedyAction] += 1.0 - e.epsilon

	// Construct a categorical distribution over arms using the action
	// probabilities and sample an arm
	dist := distuv.NewCategorical(actionProbabilities, e.seed)
	return int(dist.Rand())
}

// Update records the reward observed after pulling an arm, updating the
// arm's running value estimate with an incremental mean over that arm's
// post-pull selection count
func (e *EGreedy) Update(action int, reward float64) error {
	if action < 0 || action >= len(e.counts) {
		return fmt.Errorf("update: action %d out of range [0, %d)",
			action, len(e.counts))
	}

	e.counts[action]++
	count := float64(e.counts[action])
	estimate := e.estimates.AtVec(action)
	e.estimates.SetVec(action, estimate+(reward-estimate)/count)
	return nil
}

// Reset zeroes the value estimates and selection counts
func (e *EGreedy) Reset() {
	e.estimates.Zero()
	for i := range e.counts {
		e.counts[i] = 0
	}
}

// Estimates returns a copy of the current value estimate of each arm
func (e *EGreedy) Estimates() []float64 {
	estimates := make([]float64, e.estimates.Len())
	copy(estimates, e.estimates.RawVector().Data)
	return estimates
}

// Epsilon returns the exploration probability of the policy
func (e *EGreedy) Epsilon() float64 {
	return e.epsilon
}

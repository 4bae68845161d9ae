package policy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"sfneuman.com/rldemos/environment"
	"sfneuman.com/rldemos/utils/matutils"
)

// UCB implements the Upper Confidence Bound action-selection strategy.
//
// The policy starts with a warm-up phase which selects every arm
// exactly once, in index order, so that every arm has a non-zero
// selection count before any confidence bound is computed. After the
// warm-up, the arm maximizing
//
//	estimate + c*sqrt(ln(t)/count)
//
// is selected, ties broken toward the lowest index, where t is the
// absolute step index across the whole run, not the number of steps
// since the warm-up ended. With t = arms at the first post-warm-up
// step, ln(t) is always well defined.
type UCB struct {
	c         float64
	estimates *mat.VecDense
	counts    []int
	t         int // absolute step index
}

// NewUCB constructs a new UCB policy over arms arms, where c scales the
// exploration bonus
func NewUCB(arms int, c float64) (*UCB, error) {
	if arms < 1 {
		return nil, fmt.Errorf("newUCB: arms = %d < 1: %w", arms,
			environment.ErrInvalidArgument)
	}
	if c < 0 {
		return nil, fmt.Errorf("newUCB: c = %v < 0: %w", c,
			environment.ErrInvalidArgument)
	}

	return &UCB{
		c:         c,
		estimates: mat.NewVecDense(arms, nil),
		counts:    make([]int, arms),
	}, nil
}

// SelectAction selects the arm with the highest upper confidence bound,
// or the next unselected arm during the warm-up phase
func (u *UCB) SelectAction() int {
	arms := u.estimates.Len()

	// Warm-up: select each arm once, in index order
	if u.t < arms {
		return u.t
	}

	scores := mat.NewVecDense(arms, nil)
	logT := math.Log(float64(u.t))
	for i := 0; i < arms; i++ {
		bonus := u.c * math.Sqrt(logT/float64(u.counts[i]))
		scores.SetVec(i, u.estimates.AtVec(i)+bonus)
	}

	return matutils.MaxVec(scores)
}

// Update records the reward observed after pulling an arm, updating the
// arm's running value estimate with an incremental mean over that arm's
// post-pull selection count. During the warm-up phase the count is 1,
// so the estimate is seeded with the observed reward itself.
func (u *UCB) Update(action int, reward float64) error {
	if action < 0 || action >= len(u.counts) {
		return fmt.Errorf("update: action %d out of range [0, %d)",
			action, len(u.counts))
	}

	u.counts[action]++
	count := float64(u.counts[action])
	estimate := u.estimates.AtVec(action)
	u.estimates.SetVec(action, estimate+(reward-estimate)/count)
	u.t++
	return nil
}

// Reset zeroes the value estimates and selection counts and restarts
// the warm-up phase
func (u *UCB) Reset() {
	u.estimates.Zero()
	for i := range u.counts {
		u.counts[i] = 0
	}
	u.t = 0
}

// Estimates returns a copy of the current value estimate of each arm
func (u *UCB) Estimates() []float64 {
	estimates := make([]float64, u.estimates.Len())
	copy(estimates, u.estimates.RawVector().Data)
	return estimates
}

// C returns the exploration factor of the policy
func (u *UCB) C() float64 {
	return u.c
}

// Package bandit implements stationary k-armed bandit environments
package bandit

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	"sfneuman.com/rldemos/environment"
	"sfneuman.com/rldemos/utils/floatutils"
)

// KArmedBandit is a stationary bandit with k arms. Each arm has a fixed
// true mean reward, drawn once at construction and never mutated.
// Pulling an arm returns the arm's true mean exactly (rewards carry no
// noise) together with a flag reporting whether the pulled arm is the
// optimal one, that is, the arm with the largest true mean.
//
// The environment tracks how often each arm has been pulled since the
// last Reset. Pull counts are monotonically non-decreasing between
// resets, and the optimal arm never changes after construction.
type KArmedBandit struct {
	k         int
	trueMeans []float64
	optimal   int // index of the arm with the largest true mean
	counts    []int
}

// New returns a KArmedBandit with k arms whose true means are drawn
// from a Normal(mean, std) distribution seeded by seed. Ties in the
// true means are broken toward the lowest arm index when identifying
// the optimal arm.
func New(k int, mean, std float64, seed uint64) (*KArmedBandit, error) {
	if k < 1 {
		return nil, fmt.Errorf("new: k = %d < 1: %w", k,
			environment.ErrInvalidArgument)
	}
	if std < 0 {
		return nil, fmt.Errorf("new: std = %v < 0: %w", std,
			environment.ErrInvalidArgument)
	}

	dist := distuv.Normal{Mu: mean, Sigma: std, Src: rand.NewSource(seed)}
	trueMeans := make([]float64, k)
	for i := range trueMeans {
		trueMeans[i] = dist.Rand()
	}

	return NewFromMeans(trueMeans)
}

// NewFromMeans returns a KArmedBandit whose arms have exactly the given
// true means. It is mainly useful for constructing bandits with a known
// arm structure, e.g. a single dominant arm.
func NewFromMeans(trueMeans []float64) (*KArmedBandit, error) {
	if len(trueMeans) < 1 {
		return nil, fmt.Errorf("newFromMeans: no arms given: %w",
			environment.ErrInvalidArgument)
	}

	means := make([]float64, len(trueMeans))
	copy(means, trueMeans)

	b := &KArmedBandit{
		k:         len(means),
		trueMeans: means,
		optimal:   floatutils.ArgMax(means...),
		counts:    make([]int, len(means)),
	}
	b.Reset()
	return b, nil
}

// Reset zeroes the per-arm pull counts. The true means are drawn once
// at construction and are never re-drawn.
func (b *KArmedBandit) Reset() {
	for i := range b.counts {
		b.counts[i] = 0
	}
}

// Pull pulls the arm at index action, incrementing its pull count. It
// returns the arm's true mean reward and whether action is the optimal
// arm.
func (b *KArmedBandit) Pull(action int) (reward float64, optimal bool,
	err error) {
	if action < 0 || action >= b.k {
		return 0, false, fmt.Errorf("pull: action %d out of range [0, %d): %w",
			action, b.k, environment.ErrInvalidArgument)
	}

	b.counts[action]++
	return b.trueMeans[action], action == b.optimal, nil
}

// K returns the number of arms
func (b *KArmedBandit) K() int {
	return b.k
}

// OptimalAction returns the index of the arm with the largest true mean
func (b *KArmedBandit) OptimalAction() int {
	return b.optimal
}

// PullCounts returns a copy of the number of times each arm has been
// pulled since the last Reset
func (b *KArmedBandit) PullCounts() []int {
	counts := make([]int, b.k)
	copy(counts, b.counts)
	return counts
}

// TrueMeans returns a copy of the true mean reward of each arm
func (b *KArmedBandit) TrueMeans() []float64 {
	means := make([]float64, b.k)
	copy(means, b.trueMeans)
	return means
}

// ActionSpec returns the action specification of the environment
func (b *KArmedBandit) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0.0})
	upperBound := mat.NewVecDense(1, []float64{float64(b.k - 1)})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Discrete)
}

// RewardSpec returns the reward specification of the environment.
// Since rewards are exactly the true means, the bounds are the minimum
// and maximum true mean.
func (b *KArmedBandit) RewardSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{floatutils.Min(b.trueMeans...)})
	upperBound := mat.NewVecDense(1, []float64{floatutils.Max(b.trueMeans...)})

	return environment.NewSpec(shape, environment.Reward, lowerBound,
		upperBound, environment.Continuous)
}

func (b *KArmedBandit) String() string {
	return fmt.Sprintf("KArmedBandit | Arms: %d  |  Optimal arm: %d",
		b.k, b.optimal)
}

// Package experiment implements the Monte-Carlo averaging harnesses
// used to evaluate bandit action-selection policies
package experiment

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"sfneuman.com/rldemos/agent/bandit/policy"
	"sfneuman.com/rldemos/environment"
	"sfneuman.com/rldemos/environment/bandit"
	"sfneuman.com/rldemos/utils/progressbar"
)

// BanditConfig configures a bandit experiment. Each of Runs repetitions
// draws a fresh bandit (a new set of true means from Normal(Mean, Std))
// and evaluates every tested parameter value against that same bandit
// for Steps steps, so parameter values are compared on identical arm
// structures within a repetition.
type BanditConfig struct {
	K     int     // number of arms
	Steps int     // steps per run
	Runs  int     // independent repetitions averaged over
	Mean  float64 // mean of the true-mean generating distribution
	Std   float64 // std of the true-mean generating distribution
	Seed  uint64

	// Progress displays a terminal progress bar over the repetitions
	Progress bool
}

func (c BanditConfig) validate() error {
	if c.K < 1 {
		return fmt.Errorf("config: k = %d < 1: %w", c.K,
			environment.ErrInvalidArgument)
	}
	if c.Steps < 1 {
		return fmt.Errorf("config: steps = %d < 1: %w", c.Steps,
			environment.ErrInvalidArgument)
	}
	if c.Runs < 1 {
		return fmt.Errorf("config: runs = %d < 1: %w", c.Runs,
			environment.ErrInvalidArgument)
	}
	return nil
}

// Curves holds the per-step statistics of a bandit experiment, averaged
// element-wise over all repetitions and keyed by the tested policy
// parameter (ε or c). Every slice has exactly Steps entries: Rewards
// holds the average reward at each step and OptimalActions the fraction
// of repetitions in which the optimal arm was selected at that step.
type Curves struct {
	Params         []float64
	Rewards        map[float64][]float64
	OptimalActions map[float64][]float64
}

func newCurves(params []float64, steps int) *Curves {
	curves := &Curves{
		Params:         params,
		Rewards:        make(map[float64][]float64),
		OptimalActions: make(map[float64][]float64),
	}
	for _, param := range params {
		curves.Rewards[param] = make([]float64, steps)
		curves.OptimalActions[param] = make([]float64, steps)
	}
	return curves
}

// average divides every accumulated curve by the number of repetitions
func (c *Curves) average(runs int) {
	scale := 1.0 / float64(runs)
	for _, param := range c.Params {
		floats.Scale(scale, c.Rewards[param])
		floats.Scale(scale, c.OptimalActions[param])
	}
}

// EGreedy runs the ε-greedy experiment, evaluating every value in
// epsilons over config.Runs repetitions and returning the averaged
// per-step curves keyed by ε.
func EGreedy(config BanditConfig, epsilons []float64) (*Curves, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("eGreedy: %w", err)
	}
	if len(epsilons) == 0 {
		return nil, fmt.Errorf("eGreedy: no ε values given: %w",
			environment.ErrInvalidArgument)
	}

	rng := rand.New(rand.NewSource(config.Seed))
	curves := newCurves(epsilons, config.Steps)

	err := forEachRun(config, func(b *bandit.KArmedBandit) error {
		for _, epsilon := range epsilons {
			p, err := policy.NewEGreedy(config.K, epsilon, rng.Uint64())
			if err != nil {
				return err
			}

			rewards, optimal, err := run(b, p, config.Steps)
			if err != nil {
				return err
			}

			floats.Add(curves.Rewards[epsilon], rewards)
			floats.Add(curves.OptimalActions[epsilon], optimal)
		}
		return nil
	}, rng)
	if err != nil {
		return nil, fmt.Errorf("eGreedy: %w", err)
	}

	curves.average(config.Runs)
	return curves, nil
}

// UCB runs the Upper Confidence Bound experiment, evaluating every
// exploration factor in cs over config.Runs repetitions and returning
// the averaged per-step curves keyed by c. Steps must be at least K so
// that the warm-up phase can select every arm once.
func UCB(config BanditConfig, cs []float64) (*Curves, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("ucb: %w", err)
	}
	if len(cs) == 0 {
		return nil, fmt.Errorf("ucb: no c values given: %w",
			environment.ErrInvalidArgument)
	}
	if config.Steps < config.K {
		return nil, fmt.Errorf("ucb: steps = %d < arms = %d: %w",
			config.Steps, config.K, environment.ErrInvalidArgument)
	}

	rng := rand.New(rand.NewSource(config.Seed))
	curves := newCurves(cs, config.Steps)

	err := forEachRun(config, func(b *bandit.KArmedBandit) error {
		for _, c := range cs {
			p, err := policy.NewUCB(config.K, c)
			if err != nil {
				return err
			}

			rewards, optimal, err := run(b, p, config.Steps)
			if err != nil {
				return err
			}

			floats.Add(curves.Rewards[c], rewards)
			floats.Add(curves.OptimalActions[c], optimal)
		}
		return nil
	}, rng)
	if err != nil {
		return nil, fmt.Errorf("ucb: %w", err)
	}

	curves.average(config.Runs)
	return curves, nil
}

// forEachRun draws a fresh bandit for each repetition and hands it to
// body, displaying a progress bar over the repetitions when configured
func forEachRun(config BanditConfig, body func(*bandit.KArmedBandit) error,
	rng *rand.Rand) error {
	var bar *progressbar.ProgressBar
	if config.Progress {
		bar = progressbar.New(50, config.Runs)
		bar.Display()
	}

	for r := 0; r < config.Runs; r++ {
		b, err := bandit.New(config.K, config.Mean, config.Std, rng.Uint64())
		if err != nil {
			return err
		}

		if err := body(b); err != nil {
			return err
		}

		if bar != nil {
			bar.Increment()
			bar.Display()
		}
	}

	if bar != nil {
		bar.Close()
	}
	return nil
}

// run evaluates a single policy against a bandit for steps steps,
// returning the reward and optimal-arm indicator sequences. The bandit
// is Reset at the top of the run, so a bandit shared between parameter
// values keeps its true means while its pull counts start fresh.
func run(b *bandit.KArmedBandit, p policy.Policy,
	steps int) (rewards, optimal []float64, err error) {
	b.Reset()
	p.Reset()

	rewards = make([]float64, steps)
	optimal = make([]float64, steps)

	for i := 0; i < steps; i++ {
		action := p.SelectAction()

		reward, isOptimal, err := b.Pull(action)
		if err != nil {
			return nil, nil, err
		}

		rewards[i] = reward
		if isOptimal {
			optimal[i] = 1.0
		}

		if err := p.Update(action, reward); err != nil {
			return nil, nil, err
		}
	}

	return rewards, optimal, nil
}

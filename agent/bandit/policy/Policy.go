// Package policy implements action-selection strategies for k-armed
// bandit environments. Each policy owns its running value estimates and
// per-arm selection counts, so a single bandit environment can be
// shared between policies without the policies coupling through the
// environment's reset timing.
package policy

// Policy selects arms on a k-armed bandit and maintains a running value
// estimate for each arm
type Policy interface {
	// SelectAction returns the index of the arm to pull next
	SelectAction() int

	// Update records the reward observed after pulling an arm,
	// updating that arm's running value estimate
	Update(action int, reward float64) error

	// Reset zeroes the value estimates and selection counts
	Reset()
}

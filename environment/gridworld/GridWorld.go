// Package gridworld implements a deterministic, episodic 2D gridworld
// environment with obstacle cells and terminal reward lookup
package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"sfneuman.com/rldemos/environment"
	ts "sfneuman.com/rldemos/timestep"
	"sfneuman.com/rldemos/utils/floatutils"
	"sfneuman.com/rldemos/utils/matutils"
)

// Action indices accepted by Step
const (
	Up = iota
	Right
	Down
	Left
)

// NumActions is the size of the action space
const NumActions = 4

// DefaultGoalReward is the reward for reaching the goal cell when no
// terminal reward override is given for the goal position
const DefaultGoalReward = 10.0

// GridWorld represents a deterministic single-agent gridworld. The grid
// description is immutable after construction: each cell is classified
// as start, goal, obstacle, reward-bearing, or free, and the derived
// obstacle set and reward lookup are resolved once in New. Only the
// agent's position and the done flag change between Reset calls.
//
// States are flattened indices: state = row*cols + col, a bijection
// with (row, col) for a fixed grid shape.
type GridWorld struct {
	rows, cols    int
	start         Position
	goal          Position
	obstacles     map[Position]bool
	rewards       map[int]float64 // keyed by flattened state index
	terminals     map[Position]float64
	defaultReward float64
	discount      float64

	agent       Position
	done        bool
	currentStep ts.TimeStep
}

// New returns a GridWorld for the given grid description. The grid must
// be rectangular and contain exactly one StartCell and one GoalCell;
// otherwise New fails with environment.ErrConfiguration.
//
// Every step yields defaultReward unless the agent's position carries a
// reward entry. terminalRewards maps positions to episode-ending
// rewards: entering any of these positions ends the episode, and an
// entry for the goal position overrides DefaultGoalReward. The map may
// be nil.
func New(grid [][]Cell, defaultReward float64,
	terminalRewards map[Position]float64,
	discount float64) (*GridWorld, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, fmt.Errorf("new: empty grid: %w",
			environment.ErrConfiguration)
	}

	rows, cols := len(grid), len(grid[0])

	g := &GridWorld{
		rows:          rows,
		cols:          cols,
		start:         Position{-1, -1},
		goal:          Position{-1, -1},
		obstacles:     make(map[Position]bool),
		rewards:       make(map[int]float64),
		terminals:     make(map[Position]float64),
		defaultReward: defaultReward,
		discount:      discount,
	}
	for pos, reward := range terminalRewards {
		g.terminals[pos] = reward
	}

	for i := range grid {
		if len(grid[i]) != cols {
			return nil, fmt.Errorf("new: row %d has %d columns, want %d: %w",
				i, len(grid[i]), cols, environment.ErrConfiguration)
		}

		for j, cell := range grid[i] {
			pos := Position{i, j}
			switch cell.Type {
			case Start:
				if g.start.Row >= 0 {
					return nil, fmt.Errorf("new: multiple start cells: %w",
						environment.ErrConfiguration)
				}
				g.start = pos

			case Goal:
				if g.goal.Row >= 0 {
					return nil, fmt.Errorf("new: multiple goal cells: %w",
						environment.ErrConfiguration)
				}
				g.goal = pos
				goalReward := DefaultGoalReward
				if r, ok := g.terminals[pos]; ok {
					goalReward = r
				}
				g.rewards[g.PosToState(pos)] = goalReward

			case Obstacle:
				g.obstacles[pos] = true

			case Reward:
				g.rewards[g.PosToState(pos)] = cell.Value
			}
		}
	}

	if g.start.Row < 0 {
		return nil, fmt.Errorf("new: grid has no start cell: %w",
			environment.ErrConfiguration)
	}
	if g.goal.Row < 0 {
		return nil, fmt.Errorf("new: grid has no goal cell: %w",
			environment.ErrConfiguration)
	}

	g.Reset()
	return g, nil
}

// Reset returns the agent to the start cell and begins a new episode
func (g *GridWorld) Reset() (ts.TimeStep, error) {
	g.agent = g.start
	g.done = false

	startStep := ts.New(ts.First, 0, g.discount, g.observation(), 0)
	g.currentStep = startStep
	return startStep, nil
}

// Step takes a single environmental step given an action index and
// returns the next timestep and whether the episode has ended.
//
// Stepping a finished episode fails with environment.ErrInvalidState
// and an action outside {Up, Right, Down, Left} fails with
// environment.ErrInvalidArgument. A move that would leave the grid or
// enter an obstacle cell leaves the agent in place; collisions are not
// errors. The episode ends when the agent occupies the goal cell or any
// position with a terminal reward entry.
func (g *GridWorld) Step(action int) (ts.TimeStep, bool, error) {
	if g.done {
		return ts.TimeStep{}, false, fmt.Errorf(
			"step: episode has finished, call Reset: %w",
			environment.ErrInvalidState)
	}
	if action < Up || action > Left {
		return ts.TimeStep{}, false, fmt.Errorf(
			"step: no such action %d: %w", action,
			environment.ErrInvalidArgument)
	}

	// A move off the grid or into an obstacle leaves the agent in place
	if newPos := move(g.agent, action); g.valid(newPos) {
		g.agent = newPos
	}

	stepType := ts.Mid
	if _, terminal := g.terminals[g.agent]; terminal || g.agent == g.goal {
		g.done = true
		stepType = ts.Last
	}

	reward, ok := g.rewards[g.PosToState(g.agent)]
	if !ok {
		reward = g.defaultReward
	}

	step := ts.New(stepType, reward, g.discount, g.observation(),
		g.currentStep.Number+1)
	g.currentStep = step

	return step, g.done, nil
}

// move computes the candidate position after taking action from p
func move(p Position, action int) Position {
	switch action {
	case Up:
		return Position{p.Row - 1, p.Col}
	case Right:
		return Position{p.Row, p.Col + 1}
	case Down:
		return Position{p.Row + 1, p.Col}
	default: // Left
		return Position{p.Row, p.Col - 1}
	}
}

// valid returns whether p is within the grid bounds and not an obstacle
func (g *GridWorld) valid(p Position) bool {
	if p.Row < 0 || p.Row >= g.rows || p.Col < 0 || p.Col >= g.cols {
		return false
	}
	return !g.obstacles[p]
}

// PosToState converts a (row, col) position to a flattened state index
func (g *GridWorld) PosToState(p Position) int {
	return p.Row*g.cols + p.Col
}

// StateToPos converts a flattened state index back to a (row, col)
// position
func (g *GridWorld) StateToPos(state int) Position {
	return Position{state / g.cols, state % g.cols}
}

// State returns the flattened state index of the agent's position
func (g *GridWorld) State() int {
	return g.PosToState(g.agent)
}

// AgentPosition returns the agent's current position
func (g *GridWorld) AgentPosition() Position {
	return g.agent
}

// Done returns whether the current episode has ended
func (g *GridWorld) Done() bool {
	return g.done
}

// Dims returns the rows and columns of the grid
func (g *GridWorld) Dims() (rows, cols int) {
	return g.rows, g.cols
}

// StateSpace returns the number of states in the gridworld
func (g *GridWorld) StateSpace() int {
	return g.rows * g.cols
}

func (g *GridWorld) observation() *mat.VecDense {
	position := mat.NewVecDense(g.rows*g.cols, nil)
	position.SetVec(g.PosToState(g.agent), 1.0)
	return position
}

// ActionSpec returns the action specification of the environment
func (g *GridWorld) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{float64(Up)})
	upperBound := mat.NewVecDense(1, []float64{float64(Left)})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment. Observations are one-hot encodings of the flattened
// state index.
func (g *GridWorld) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(g.rows*g.cols, nil)
	lowerBound := mat.NewVecDense(g.rows*g.cols, nil)
	upperBound := matutils.VecOnes(g.rows * g.cols)

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Discrete)
}

// RewardSpec returns the reward specification of the environment
func (g *GridWorld) RewardSpec() environment.Spec {
	rewards := []float64{g.defaultReward}
	for _, r := range g.rewards {
		rewards = append(rewards, r)
	}

	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{floatutils.Min(rewards...)})
	upperBound := mat.NewVecDense(1, []float64{floatutils.Max(rewards...)})

	return environment.NewSpec(shape, environment.Reward, lowerBound,
		upperBound, environment.Continuous)
}

// DiscountSpec returns the discount specification of the environment
func (g *GridWorld) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{g.discount})

	return environment.NewSpec(shape, environment.Discount, bound, bound,
		environment.Continuous)
}

package gridworld_test

import (
	"errors"
	"testing"

	"golang.org/x/exp/rand"

	"sfneuman.com/rldemos/environment"
	"sfneuman.com/rldemos/environment/gridworld"
)

var (
	s = gridworld.StartCell
	g = gridworld.GoalCell
	x = gridworld.ObstacleCell
	o = gridworld.FreeCell
)

// newTestWorld returns the 5x5 demonstration grid: start at (0, 0),
// goal at (4, 4) with reward 10, a penalty cell, and a diagonal band of
// obstacles
func newTestWorld(t *testing.T) *gridworld.GridWorld {
	t.Helper()

	grid := [][]gridworld.Cell{
		{s, o, o, o, o},
		{o, x, gridworld.RewardCell(-5), x, o},
		{o, o, x, o, o},
		{o, o, o, x, o},
		{o, o, o, o, g},
	}
	terminalRewards := map[gridworld.Position]float64{
		{Row: 4, Col: 4}: 10,
	}

	world, err := gridworld.New(grid, -1, terminalRewards, 1.0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return world
}

func TestNewConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		grid [][]gridworld.Cell
	}{
		{"all obstacles", [][]gridworld.Cell{{x, x}, {x, x}}},
		{"missing goal", [][]gridworld.Cell{{s, o}, {o, o}}},
		{"missing start", [][]gridworld.Cell{{o, o}, {o, g}}},
		{"multiple starts", [][]gridworld.Cell{{s, s}, {o, g}}},
		{"multiple goals", [][]gridworld.Cell{{s, g}, {g, o}}},
		{"empty grid", [][]gridworld.Cell{}},
		{"ragged grid", [][]gridworld.Cell{{s, o}, {g}}},
	}

	for _, test := range tests {
		_, err := gridworld.New(test.grid, -1, nil, 1.0)
		if !errors.Is(err, environment.ErrConfiguration) {
			t.Errorf("%v: got %v, want ErrConfiguration", test.name, err)
		}
	}
}

func TestStateBijection(t *testing.T) {
	world := newTestWorld(t)
	rows, cols := world.Dims()

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			pos := gridworld.Position{Row: row, Col: col}
			state := world.PosToState(pos)

			if state != row*cols+col {
				t.Errorf("state(%v) = %d, want %d", pos, state, row*cols+col)
			}
			if back := world.StateToPos(state); back != pos {
				t.Errorf("stateToPos(posToState(%v)) = %v", pos, back)
			}
		}
	}
}

func TestStepNeverLeavesFreeCells(t *testing.T) {
	world := newTestWorld(t)
	rows, cols := world.Dims()
	obstacles := map[gridworld.Position]bool{
		{Row: 1, Col: 1}: true,
		{Row: 1, Col: 3}: true,
		{Row: 2, Col: 2}: true,
		{Row: 3, Col: 3}: true,
	}

	rng := rand.New(rand.NewSource(14))
	for i := 0; i < 1000; i++ {
		_, done, err := world.Step(rng.Intn(gridworld.NumActions))
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		pos := world.AgentPosition()
		if pos.Row < 0 || pos.Row >= rows || pos.Col < 0 || pos.Col >= cols {
			t.Fatalf("step %d: agent out of bounds at %v", i, pos)
		}
		if obstacles[pos] {
			t.Fatalf("step %d: agent on obstacle at %v", i, pos)
		}

		if done {
			if _, err := world.Reset(); err != nil {
				t.Fatalf("reset: %v", err)
			}
		}
	}
}

func TestReachGoal(t *testing.T) {
	world := newTestWorld(t)

	actions := []int{
		gridworld.Right, gridworld.Right, gridworld.Right, gridworld.Right,
		gridworld.Down, gridworld.Down, gridworld.Down, gridworld.Down,
	}

	var done bool
	var reward float64
	for i, action := range actions {
		step, last, err := world.Step(action)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if last && i != len(actions)-1 {
			t.Fatalf("episode ended early at step %d", i)
		}
		done, reward = last, step.Reward
	}

	if !done {
		t.Error("episode should be done at the goal")
	}
	if reward != 10 {
		t.Errorf("goal reward = %v, want 10", reward)
	}
	if pos := world.AgentPosition(); pos != (gridworld.Position{Row: 4, Col: 4}) {
		t.Errorf("agent at %v, want (4, 4)", pos)
	}
	if world.State() != 24 {
		t.Errorf("goal state = %d, want 24", world.State())
	}
}

func TestGoalRewardOverride(t *testing.T) {
	grid := [][]gridworld.Cell{
		{s, g},
	}

	// Without an override the goal pays DefaultGoalReward
	world, err := gridworld.New(grid, -1, nil, 1.0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	step, done, err := world.Step(gridworld.Right)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !done || step.Reward != gridworld.DefaultGoalReward {
		t.Errorf("goal: done = %v, reward = %v, want true, %v", done,
			step.Reward, gridworld.DefaultGoalReward)
	}

	// A terminal reward entry for the goal position overrides it
	world, err = gridworld.New(grid, -1,
		map[gridworld.Position]float64{{Row: 0, Col: 1}: 50}, 1.0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	step, done, err = world.Step(gridworld.Right)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !done || step.Reward != 50 {
		t.Errorf("overridden goal: done = %v, reward = %v, want true, 50",
			done, step.Reward)
	}
}

func TestNonGoalTerminal(t *testing.T) {
	grid := [][]gridworld.Cell{
		{s, o, g},
	}
	world, err := gridworld.New(grid, -1,
		map[gridworld.Position]float64{{Row: 0, Col: 1}: 7}, 1.0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// Entering a terminal position ends the episode. The reward comes
	// from the reward lookup, which has no entry for this position, so
	// it falls back to the default step reward.
	step, done, err := world.Step(gridworld.Right)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !done {
		t.Error("terminal position should end the episode")
	}
	if step.Reward != -1 {
		t.Errorf("terminal reward = %v, want default -1", step.Reward)
	}
}

func TestRewardCellIsNotTerminal(t *testing.T) {
	world := newTestWorld(t)

	// Right, Right, Down puts the agent on the -5 penalty cell
	actions := []int{gridworld.Right, gridworld.Right, gridworld.Down}
	var step = struct {
		reward float64
		done   bool
	}{}
	for i, action := range actions {
		ts, done, err := world.Step(action)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		step.reward, step.done = ts.Reward, done
	}

	if step.done {
		t.Error("penalty cell should not end the episode")
	}
	if step.reward != -5 {
		t.Errorf("penalty reward = %v, want -5", step.reward)
	}
	if pos := world.AgentPosition(); pos != (gridworld.Position{Row: 1, Col: 2}) {
		t.Errorf("agent at %v, want (1, 2)", pos)
	}
}

func TestCollisionIsNoOp(t *testing.T) {
	world := newTestWorld(t)

	// Up from (0, 0) leaves the grid; the agent stays put
	step, done, err := world.Step(gridworld.Up)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if done {
		t.Error("collision should not end the episode")
	}
	if pos := world.AgentPosition(); pos != (gridworld.Position{}) {
		t.Errorf("agent moved to %v on a wall collision", pos)
	}
	if step.Reward != -1 {
		t.Errorf("collision reward = %v, want default -1", step.Reward)
	}

	// Down, then Right into the obstacle at (1, 1); the agent stays put
	if _, _, err := world.Step(gridworld.Down); err != nil {
		t.Fatalf("step: %v", err)
	}
	if _, _, err := world.Step(gridworld.Right); err != nil {
		t.Fatalf("step: %v", err)
	}
	if pos := world.AgentPosition(); pos != (gridworld.Position{Row: 1, Col: 0}) {
		t.Errorf("agent at %v after obstacle collision, want (1, 0)", pos)
	}
}

func TestStepAfterDone(t *testing.T) {
	grid := [][]gridworld.Cell{
		{s, g},
	}
	world, err := gridworld.New(grid, -1, nil, 1.0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, _, err := world.Step(gridworld.Right); err != nil {
		t.Fatalf("step: %v", err)
	}
	if !world.Done() {
		t.Fatal("episode should be done")
	}

	if _, _, err := world.Step(gridworld.Left); !errors.Is(err,
		environment.ErrInvalidState) {
		t.Errorf("step after done: got %v, want ErrInvalidState", err)
	}

	// Reset permits stepping again
	if _, err := world.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, _, err := world.Step(gridworld.Right); err != nil {
		t.Errorf("step after Reset: %v", err)
	}
}

func TestStepInvalidAction(t *testing.T) {
	world := newTestWorld(t)

	for _, action := range []int{-1, 4, 100} {
		if _, _, err := world.Step(action); !errors.Is(err,
			environment.ErrInvalidArgument) {
			t.Errorf("step(%d): got %v, want ErrInvalidArgument", action, err)
		}
	}
}

func TestResetReturnsStartState(t *testing.T) {
	world := newTestWorld(t)

	if _, _, err := world.Step(gridworld.Down); err != nil {
		t.Fatalf("step: %v", err)
	}

	step, err := world.Reset()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !step.First() {
		t.Error("reset should return a First timestep")
	}
	if step.State() != 0 {
		t.Errorf("start state = %d, want 0", step.State())
	}
	if world.AgentPosition() != (gridworld.Position{}) {
		t.Errorf("agent at %v after Reset, want (0, 0)", world.AgentPosition())
	}
}

func TestString(t *testing.T) {
	world := newTestWorld(t)

	want := "A O O O O\n" +
		"O X -5 X O\n" +
		"O O X O O\n" +
		"O O O X O\n" +
		"O O O O G\n"
	if got := world.String(); got != want {
		t.Errorf("grid string:\n%v\nwant:\n%v", got, want)
	}
}

// The gridworld must satisfy the shared environment interface
func TestEnvironmentInterface(t *testing.T) {
	var env environment.Environment = newTestWorld(t)

	step, err := env.Reset()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !step.First() {
		t.Error("reset should return a First timestep")
	}

	if upper := env.ActionSpec().UpperBound.AtVec(0); upper != 3 {
		t.Errorf("action upper bound = %v, want 3", upper)
	}
	if length := env.ObservationSpec().Shape.Len(); length != 25 {
		t.Errorf("observation shape = %d, want 25", length)
	}
	if lower := env.RewardSpec().LowerBound.AtVec(0); lower != -5 {
		t.Errorf("reward lower bound = %v, want -5", lower)
	}
}

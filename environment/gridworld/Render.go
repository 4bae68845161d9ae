package gridworld

import (
	"fmt"
	"strconv"
	"strings"
)

// String returns a textual snapshot of the grid. Obstacles are drawn as
// "X", reward-bearing cells as their numeric reward, the goal as "G",
// the agent as "A", and free cells as "O". The agent marker covers any
// other marker at its position.
func (g *GridWorld) String() string {
	cells := make([][]string, g.rows)
	for i := range cells {
		cells[i] = make([]string, g.cols)
		for j := range cells[i] {
			cells[i][j] = "O"
		}
	}

	for pos := range g.obstacles {
		cells[pos.Row][pos.Col] = "X"
	}

	for state, reward := range g.rewards {
		pos := g.StateToPos(state)
		if cells[pos.Row][pos.Col] == "O" {
			cells[pos.Row][pos.Col] = strconv.FormatFloat(reward, 'g', -1, 64)
		}
	}

	cells[g.goal.Row][g.goal.Col] = "G"
	cells[g.agent.Row][g.agent.Col] = "A"

	var str strings.Builder
	for _, row := range cells {
		str.WriteString(strings.Join(row, " "))
		str.WriteString("\n")
	}
	return str.String()
}

// Render prints the current grid snapshot to the terminal for manual
// inspection
func (g *GridWorld) Render() {
	fmt.Println(g.String())
}

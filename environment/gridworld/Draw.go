package gridworld

import (
	"fmt"
	"strconv"

	"github.com/fogleman/gg"
	"sfneuman.com/rldemos/environment"
)

// Draw renders the current grid snapshot as a PNG image at path, with
// each cell drawn cellSize pixels square. Obstacles are drawn dark
// gray, reward-bearing cells light blue with their reward value, the
// goal green, and the agent as a red disc.
func (g *GridWorld) Draw(path string, cellSize int) error {
	if cellSize < 1 {
		return fmt.Errorf("draw: cell size %d < 1: %w", cellSize,
			environment.ErrInvalidArgument)
	}

	size := float64(cellSize)
	dc := gg.NewContext(g.cols*cellSize, g.rows*cellSize)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			pos := Position{i, j}
			x, y := float64(j)*size, float64(i)*size

			state := g.PosToState(pos)
			reward, rewarded := g.rewards[state]

			switch {
			case g.obstacles[pos]:
				dc.SetRGB(0.25, 0.25, 0.25)
			case pos == g.goal:
				dc.SetRGB(0.55, 0.85, 0.55)
			case rewarded:
				dc.SetRGB(0.7, 0.8, 0.95)
			default:
				dc.SetRGB(1, 1, 1)
			}
			dc.DrawRectangle(x, y, size, size)
			dc.Fill()

			// Cell border
			dc.SetRGB(0.6, 0.6, 0.6)
			dc.DrawRectangle(x, y, size, size)
			dc.Stroke()

			if rewarded && pos != g.goal && !g.obstacles[pos] {
				dc.SetRGB(0, 0, 0)
				dc.DrawStringAnchored(
					strconv.FormatFloat(reward, 'g', -1, 64),
					x+size/2, y+size/2, 0.5, 0.5)
			}
		}
	}

	// Agent
	dc.SetRGB(0.85, 0.25, 0.25)
	dc.DrawCircle(float64(g.agent.Col)*size+size/2,
		float64(g.agent.Row)*size+size/2, size/3)
	dc.Fill()

	return dc.SavePNG(path)
}

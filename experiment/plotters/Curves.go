// Package plotters renders experiment results with gonum/plot
package plotters

import (
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"sfneuman.com/rldemos/experiment"
)

// Curves renders the two-panel summary of a bandit experiment as a PNG
// at filename: the average reward per step on the top panel and the
// fraction of optimal-arm selections per step on the bottom panel, with
// one line per tested parameter value. The paramName argument labels
// the lines in the legends, e.g. "ε" or "c".
func Curves(curves *experiment.Curves, paramName, filename string) error {
	rewardPanel, err := newPanel("Average Reward", curves.Rewards,
		curves.Params, paramName)
	if err != nil {
		return fmt.Errorf("curves: %v", err)
	}

	optimalPanel, err := newPanel("Probability of Selecting Optimal Arm",
		curves.OptimalActions, curves.Params, paramName)
	if err != nil {
		return fmt.Errorf("curves: %v", err)
	}
	optimalPanel.Y.Min, optimalPanel.Y.Max = 0.0, 1.0

	img := vgimg.New(8*vg.Inch, 10*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 2, Cols: 1}

	rewardPanel.Draw(tiles.At(dc, 0, 0))
	optimalPanel.Draw(tiles.At(dc, 0, 1))

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("curves: could not create file: %v", err)
	}
	defer file.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(file); err != nil {
		return fmt.Errorf("curves: could not write image: %v", err)
	}
	return nil
}

// newPanel builds a single panel plotting one line per parameter value
func newPanel(yLabel string, lines map[float64][]float64, params []float64,
	paramName string) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "Steps"
	p.Y.Label.Text = yLabel
	p.Legend.Top = false

	for i, param := range params {
		line, err := plotter.NewLine(xysOf(lines[param]))
		if err != nil {
			return nil, fmt.Errorf("newPanel: could not create line: %v", err)
		}
		line.Color = plotutil.Color(i)

		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%v = %v", paramName, param), line)
	}

	return p, nil
}

// xysOf converts a per-step curve into plotter XY points
func xysOf(curve []float64) plotter.XYs {
	xys := make(plotter.XYs, len(curve))
	for i, value := range curve {
		xys[i].X = float64(i)
		xys[i].Y = value
	}
	return xys
}

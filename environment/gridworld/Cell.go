package gridworld

import "strconv"

// CellType tags the role a single cell plays in a grid description
type CellType int

const (
	Free CellType = iota
	Start
	Goal
	Obstacle
	Reward
)

// Cell describes one cell of a grid. Value is meaningful only for
// Reward cells, where it overrides the default step reward at that
// position.
//
// A grid description must contain exactly one Start and exactly one
// Goal cell; construction fails otherwise.
type Cell struct {
	Type  CellType
	Value float64
}

// Convenience cells for building grid descriptions as literals
var (
	FreeCell     = Cell{Type: Free}
	StartCell    = Cell{Type: Start}
	GoalCell     = Cell{Type: Goal}
	ObstacleCell = Cell{Type: Obstacle}
)

// RewardCell returns a Free-like cell that yields reward value when the
// agent occupies it
func RewardCell(value float64) Cell {
	return Cell{Type: Reward, Value: value}
}

func (c Cell) String() string {
	switch c.Type {
	case Start:
		return "S"
	case Goal:
		return "G"
	case Obstacle:
		return "X"
	case Reward:
		return strconv.FormatFloat(c.Value, 'g', -1, 64)
	default:
		return "O"
	}
}

// Position is a (row, column) coordinate on a grid. Row 0 is the top
// row and column 0 is the leftmost column.
type Position struct {
	Row, Col int
}

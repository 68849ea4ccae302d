package gridworld

import (
	"fmt"

	"github.com/samuelfneumann/gridmdp/environment"
)

// SingleStart always starts the agent at the same position
type SingleStart struct {
	position environment.Position
}

// NewSingleStart returns a starter at (x, y) for a grid with r rows and
// c columns
func NewSingleStart(x, y, r, c int) (environment.Starter, error) {
	if x < 0 || x >= c {
		return &SingleStart{}, fmt.Errorf("x = %d not in [0, cols = %d)",
			x, c)
	} else if y < 0 || y >= r {
		return &SingleStart{}, fmt.Errorf("y = %d not in [0, rows = %d)",
			y, r)
	}

	return &SingleStart{environment.Position{X: x, Y: y}}, nil
}

// Start returns the starting position
func (s *SingleStart) Start() environment.Position {
	return s.position
}

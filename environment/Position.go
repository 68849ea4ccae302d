package environment

import "fmt"

// Position is an (x, y) == (col, row) location in a grid. Row 0 is the
// top row.
type Position struct {
	X, Y int
}

// Move returns the position shifted by the unit vector of a. No bounds
// checking is performed.
func (p Position) Move(a Action) Position {
	dx, dy := a.Delta()
	return Position{p.X + dx, p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

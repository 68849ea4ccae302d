package gridworld

import (
	"errors"
	"fmt"
	"math"

	"github.com/samuelfneumann/gridmdp/environment"
)

var (
	// ErrInvalidValue is returned when a cell value is set to NaN
	ErrInvalidValue = errors.New("invalid value")

	// ErrOutOfBounds is returned when a position is outside the grid or
	// on a cell the agent cannot occupy
	ErrOutOfBounds = errors.New("out of bounds")
)

// Kind is the variant of a Cell
type Kind int

const (
	Empty Kind = iota
	Boulder
	Exit
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "Empty"
	case Boulder:
		return "Boulder"
	case Exit:
		return "Exit"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Cell is a single location in a GridWorld.
//
// A Cell carries two values: its true value, computed from the known
// model by value iteration, and its learned value, derived from the
// action estimates learned through experience. Only Empty cells have a
// mutable true value. Exit cells keep the reward they were constructed
// with and Boulder cells keep zero forever.
type Cell struct {
	kind     Kind
	position environment.Position

	// canMove marks traversable cells. Exits are not traversable: once
	// reached the episode is over.
	canMove      bool
	mutableValue bool

	trueValue    float64
	learnedValue float64
	estimates    [environment.NumActions]float64
}

// NewEmpty returns a new traversable cell at (x, y)
func NewEmpty(x, y int) *Cell {
	return &Cell{
		kind:         Empty,
		position:     environment.Position{X: x, Y: y},
		canMove:      true,
		mutableValue: true,
	}
}

// NewBoulder returns a new impassable cell at (x, y)
func NewBoulder(x, y int) *Cell {
	return &Cell{
		kind:     Boulder,
		position: environment.Position{X: x, Y: y},
	}
}

// NewExit returns a new terminal cell at (x, y) with a fixed reward
func NewExit(x, y int, reward float64) *Cell {
	return &Cell{
		kind:      Exit,
		position:  environment.Position{X: x, Y: y},
		trueValue: reward,
	}
}

// Kind returns the variant of the cell
func (c *Cell) Kind() Kind { return c.kind }

// Position returns the location of the cell in its grid
func (c *Cell) Position() environment.Position { return c.position }

// CanMove returns whether the cell is traversable
func (c *Cell) CanMove() bool { return c.canMove }

// MutableValue returns whether SetTrueValue can change the cell
func (c *Cell) MutableValue() bool { return c.mutableValue }

// TrueValue returns the value of the cell under the known model
func (c *Cell) TrueValue() float64 { return c.trueValue }

// LearnedValue returns the value of the cell learned from experience
func (c *Cell) LearnedValue() float64 { return c.learnedValue }

// Estimate returns the learned estimate of attempting action a
func (c *Cell) Estimate(a environment.Action) float64 {
	return c.estimates[a]
}

// Estimates returns a copy of the action-estimate table, indexed by
// environment.Action
func (c *Cell) Estimates() [environment.NumActions]float64 {
	return c.estimates
}

// SetTrueValue sets the true value of the cell. The call is ignored for
// cells without a mutable value.
func (c *Cell) SetTrueValue(value float64) error {
	if math.IsNaN(value) {
		return fmt.Errorf("setTrueValue: cell %v: %w", c.position,
			ErrInvalidValue)
	}
	if c.mutableValue {
		c.trueValue = value
	}
	return nil
}

// SetLearnedValue sets the learned value of the cell. Boulders have no
// learned value and ignore the call.
func (c *Cell) SetLearnedValue(value float64) error {
	if math.IsNaN(value) {
		return fmt.Errorf("setLearnedValue: cell %v: %w", c.position,
			ErrInvalidValue)
	}
	if c.kind != Boulder {
		c.learnedValue = value
	}
	return nil
}

// UpdateEstimate moves the estimate of action a toward reward with a
// weighted moving average: q <- q(1 - alpha) + alpha * reward. The
// updated estimate is returned.
func (c *Cell) UpdateEstimate(a environment.Action, reward,
	alpha float64) (float64, error) {
	if !a.Valid() {
		return 0, fmt.Errorf("updateEstimate: no estimate for action %v", a)
	}
	if math.IsNaN(reward) {
		return 0, fmt.Errorf("updateEstimate: cell %v: %w", c.position,
			ErrInvalidValue)
	}
	if c.kind == Boulder {
		return c.estimates[a], nil
	}

	c.estimates[a] = c.estimates[a]*(1-alpha) + alpha*reward
	return c.estimates[a], nil
}

// MaxEstimate returns the largest action estimate of the cell
func (c *Cell) MaxEstimate() float64 {
	max := c.estimates[0]
	for _, v := range c.estimates[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func (c *Cell) String() string {
	return fmt.Sprintf("%v%v", c.kind, c.position)
}

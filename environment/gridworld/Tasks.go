package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/gridmdp/utils/floatutils"
)

// Probability is the closed interval that noise and discount must lie
// in
var Probability = r1.Interval{Min: 0, Max: 1}

// Task implements the reward scheme of a GridWorld. Every transition
// costs the step cost and earns the discounted value of the cell the
// agent lands on. Reaching an Exit cell ends the episode.
type Task struct {
	stepCost float64
	discount float64
}

// NewTask returns a new Task
func NewTask(stepCost, discount float64) (Task, error) {
	if !floatutils.InInterval(discount, Probability) {
		return Task{}, fmt.Errorf("newTask: discount %v not in [%v, %v]",
			discount, Probability.Min, Probability.Max)
	}
	return Task{stepCost, discount}, nil
}

// Reward returns the reward for landing on dest. The destination is
// valued by its true value if useTrueValue is set and by its learned
// value otherwise.
func (t Task) Reward(dest *Cell, useTrueValue bool) float64 {
	value := dest.LearnedValue()
	if useTrueValue {
		value = dest.TrueValue()
	}
	return t.stepCost + t.discount*value
}

// AtGoal returns whether c ends an episode
func (t Task) AtGoal(c *Cell) bool {
	return c.Kind() == Exit
}

// StepCost returns the reward received on every transition
func (t Task) StepCost() float64 { return t.stepCost }

// Discount returns the discount factor
func (t Task) Discount() float64 { return t.discount }

func (t Task) String() string {
	return fmt.Sprintf("Task | Step Cost: %.2f  |  Discount: %.2f",
		t.stepCost, t.discount)
}

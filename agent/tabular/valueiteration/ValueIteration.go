// Package valueiteration implements synchronous value iteration over the
// known model of a gridworld.
package valueiteration

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
	"github.com/samuelfneumann/gridmdp/utils/matutils"
)

// ValueIteration computes the true value of every Empty cell of a
// GridWorld with synchronous dynamic programming sweeps. Each sweep
// computes every new value from the values of the previous sweep, so
// the order in which cells are visited does not matter.
type ValueIteration struct {
	env      *gridworld.GridWorld
	sweeps   int
	done     int
	residual float64
}

// New creates a new ValueIteration that performs sweeps sweeps on env
func New(env *gridworld.GridWorld, sweeps int) (*ValueIteration, error) {
	if sweeps < 0 {
		return nil, fmt.Errorf("new: sweeps must be non-negative, got %d",
			sweeps)
	}
	return &ValueIteration{env: env, sweeps: sweeps}, nil
}

// Step performs a single sweep over all Empty cells. Exit and Boulder
// cells are never updated.
func (v *ValueIteration) Step() error {
	old := v.env.TrueValues()
	next := mat.DenseCopyOf(old)

	for _, p := range v.env.EmptyCells() {
		best := math.Inf(-1)
		for _, a := range environment.Actions {
			best = math.Max(best, v.env.ExpectedActionRewardFrom(p, a))
		}
		next.Set(p.Y, p.X, best)
	}

	r, c := next.Dims()
	for y := 0; y < r; y++ {
		for x := 0; x < c; x++ {
			if err := v.env.At(x, y).SetTrueValue(next.At(y, x)); err != nil {
				return fmt.Errorf("step: sweep %d: %w", v.done+1, err)
			}
		}
	}

	v.residual = matutils.MaxAbsDiff(next, old)
	v.done++
	return nil
}

// Run performs all configured sweeps. There is no convergence check.
func (v *ValueIteration) Run() error {
	return agent.Run(v, v.sweeps-v.done)
}

// Iterations returns the number of sweeps Run performs
func (v *ValueIteration) Iterations() int {
	return v.sweeps
}

// Sweeps returns the number of sweeps performed so far
func (v *ValueIteration) Sweeps() int {
	return v.done
}

// Residual returns the largest change of any value in the last sweep
func (v *ValueIteration) Residual() float64 {
	return v.residual
}

// SelectAction returns the greedy action at p with respect to the
// current true values
func (v *ValueIteration) SelectAction(p environment.Position) environment.Action {
	return v.env.BestActionFromState(p)
}

// BestActions returns the greedy action at p. Only Empty cells have a
// policy, other cells return no actions.
func (v *ValueIteration) BestActions(p environment.Position) []environment.Action {
	if !v.env.IsEmpty(p) {
		return nil
	}
	a := v.env.BestActionFromState(p)
	if a == environment.Stay {
		return nil
	}
	return []environment.Action{a}
}

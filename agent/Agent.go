// Package agent defines the interfaces shared by the gridworld solvers
package agent

import "github.com/samuelfneumann/gridmdp/environment"

// Agent determines the implementation details of a solver.
//
// An Agent is composed of a Learner, which updates values held in the
// environment's cells, and a Policy which chooses actions from those
// values. Both read and write the same cells, so any update made by the
// Learner is immediately reflected in the actions the Policy chooses.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how values are
// updated.
type Learner interface {
	// Step performs a single update to the learner, one sweep for
	// planners and one environment step for learners
	Step() error

	// Run performs Iterations() calls to Step, stopping at the first
	// error
	Run() error

	// Iterations returns the number of updates Run performs
	Iterations() int
}

// Policy represents the greedy policy of an agent
type Policy interface {
	// SelectAction returns the action taken at p. Ties between equally
	// good actions may be broken randomly.
	SelectAction(p environment.Position) environment.Action

	// BestActions returns every action the policy considers best at p
	BestActions(p environment.Position) []environment.Action
}

// Residualer is an agent that can report how much its last update
// changed the values it maintains
type Residualer interface {
	Residual() float64
}

// Run performs n steps of a Learner
func Run(l Learner, n int) error {
	for i := 0; i < n; i++ {
		if err := l.Step(); err != nil {
			return err
		}
	}
	return nil
}

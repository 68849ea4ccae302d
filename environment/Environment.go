// Package environment outlines the interfaces and types shared by
// gridworld environments and the agents that solve them
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gridmdp/timestep"
)

// Starter implements a distribution of starting positions and samples
// starting positions for environments
type Starter interface {
	Start() Position
}

// Environment implements a simulated environment an agent can act in
type Environment interface {
	// Reset moves the agent to a starting position, sampled uniformly
	// from the empty cells if random is true
	Reset(random bool) timestep.TimeStep

	// Step takes one noisy step in the environment and reports
	// whether the step ended the episode
	Step(action Action) (timestep.TimeStep, bool)

	LastTimeStep() timestep.TimeStep
	IsTerminal() bool
	Position() Position
}

// Observation encodes a position as an (x, y) vector, which is the
// observation carried by TimeSteps
func Observation(p Position) *mat.VecDense {
	return mat.NewVecDense(2, []float64{float64(p.X), float64(p.Y)})
}

// FromObservation converts an (x, y) observation vector back into a
// Position
func FromObservation(obs mat.Vector) Position {
	return Position{int(obs.AtVec(0)), int(obs.AtVec(1))}
}

package agent

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gridmdp/environment/gridworld"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes. The
	// source should be the one the environment was created with.
	CreateAgent(env *gridworld.GridWorld, source rand.Source) (Agent, error)

	// ValidAgent returns whether the argument agent is valid for the
	// Config
	ValidAgent(Agent) bool

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of agent the Config creates
	Type() Type
}

// Params holds the solver settings read from a grid definition and a
// query. Each registered Type picks the fields it needs.
type Params struct {
	Iterations   int
	LearningRate float64
	RandomReset  bool
}

package valueiteration

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
)

func init() {
	agent.Register(agent.ValueIteration, func(p agent.Params) agent.Config {
		return Config{Sweeps: p.Iterations}
	})
}

// Config represents a configuration for the ValueIteration agent
type Config struct {
	Sweeps int
}

// CreateAgent creates the agent from the Config. Value iteration draws
// no random numbers, so the source is ignored.
func (c Config) CreateAgent(env *gridworld.GridWorld,
	_ rand.Source) (agent.Agent, error) {
	v, err := New(env, c.Sweeps)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*ValueIteration)
	return ok
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Sweeps < 0 {
		return fmt.Errorf("sweeps cannot be lower than 0")
	}
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.ValueIteration
}

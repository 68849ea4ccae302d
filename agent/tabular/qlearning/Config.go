package qlearning

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
	"github.com/samuelfneumann/gridmdp/utils/floatutils"
)

func init() {
	agent.Register(agent.QLearning, func(p agent.Params) agent.Config {
		return Config{
			Episodes:     p.Iterations,
			LearningRate: p.LearningRate,
			RandomReset:  p.RandomReset,
		}
	})
}

// Config represents a configuration for the QLearning agent
type Config struct {
	Episodes     int
	LearningRate float64

	// RandomReset restarts episodes on a uniformly random empty cell
	// instead of the start position
	RandomReset bool
}

// CreateAgent creates the agent from the Config
func (c Config) CreateAgent(env *gridworld.GridWorld,
	source rand.Source) (agent.Agent, error) {
	q, err := New(env, c, source)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*QLearning)
	return ok
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Episodes < 0 {
		return fmt.Errorf("episodes cannot be lower than 0")
	}
	if !floatutils.InInterval(c.LearningRate, gridworld.Probability) {
		return fmt.Errorf("learning rate %v not in [0, 1]", c.LearningRate)
	}
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.QLearning
}

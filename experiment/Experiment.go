// Package experiment implements functionality for running a solver on
// a gridworld and tracking what happens while it runs
package experiment

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gridmdp/agent"
	// Solvers register their agent.Type on import
	_ "github.com/samuelfneumann/gridmdp/agent/tabular/qlearning"
	_ "github.com/samuelfneumann/gridmdp/agent/tabular/valueiteration"
	"github.com/samuelfneumann/gridmdp/environment/envconfig"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
	"github.com/samuelfneumann/gridmdp/experiment/trackers"
)

// Experiment outlines structs that can run experiments.
// Experiments will track environment TimeSteps, caching each TimeStep
// in RAM to be later saved to disk. The Save() function will then take
// all cached data and save it to disk. This is usually performed after
// an experiment has been run. The Run() method will run the agent for
// its full iteration budget.
//
// In order to save data, Experiments use Trackers. Trackers determine
// which data generated during the experiment is saved. Experiments will
// send each TimeStep to Trackers using the Tracker's Track() method.
// New Trackers can be registered with an Experiment through the
// constructor or through an Experiment's Register() function.
type Experiment interface {
	ID() uuid.UUID
	Run() error

	// Save all tracked data to disk
	Save() error

	// Adds a new trackers.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t trackers.Tracker)
}

// Config represents a configuration of an experiment: one solver run on
// one grid.
type Config struct {
	Type        agent.Type
	Iterations  int
	RandomReset bool
	EnvConf     envconfig.Config
}

// NewConfig returns the Config of running the solver of type t on the
// grid envConf for its default number of iterations: K sweeps for value
// iteration and Episodes steps for Q-learning
func NewConfig(t agent.Type, envConf envconfig.Config,
	randomReset bool) Config {
	iterations := envConf.Episodes
	if t == agent.ValueIteration {
		iterations = envConf.Sweeps
	}

	return Config{
		Type:        t,
		Iterations:  iterations,
		RandomReset: randomReset,
		EnvConf:     envConf,
	}
}

// CreateExp creates the environment and agent described by the Config
// and returns an Online experiment running them. A single source seeded
// with seed is shared by the environment and the agent.
func (c Config) CreateExp(seed uint64,
	t ...trackers.Tracker) (*Online, *gridworld.GridWorld, error) {
	source := rand.NewSource(seed)

	env, err := c.EnvConf.Create(source)
	if err != nil {
		return nil, nil, fmt.Errorf("createExp: could not create "+
			"environment: %v", err)
	}

	agentConf, err := agent.New(c.Type, agent.Params{
		Iterations:   c.Iterations,
		LearningRate: c.EnvConf.LearningRate,
		RandomReset:  c.RandomReset,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("createExp: %v", err)
	}

	a, err := agentConf.CreateAgent(env, source)
	if err != nil {
		return nil, nil, fmt.Errorf("createExp: could not create agent: %v",
			err)
	}

	return NewOnline(env, a, a.Iterations(), t...), env, nil
}

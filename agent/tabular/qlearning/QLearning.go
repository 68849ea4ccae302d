// Package qlearning implements tabular Q-value learning on a gridworld.
//
// The learner never looks at the true values of cells. It moves through
// the environment with noisy actions and values each destination by its
// learned value, except for exits, whose learned value is set to their
// fixed reward as soon as they are reached.
package qlearning

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
	"github.com/samuelfneumann/gridmdp/utils/floatutils"
)

// QLearning implements the Q-learning algorithm with a greedy behaviour
// policy that breaks ties uniformly at random
type QLearning struct {
	env          *gridworld.GridWorld
	learningRate float64
	episodes     int
	randomReset  bool

	rng  *rand.Rand
	done int
}

// New creates a new QLearning agent on env. The source should be the
// one env was created with so that a single seed determines the run.
func New(env *gridworld.GridWorld, c Config,
	source rand.Source) (*QLearning, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &QLearning{
		env:          env,
		learningRate: c.LearningRate,
		episodes:     c.Episodes,
		randomReset:  c.RandomReset,
		rng:          rand.New(source),
	}, nil
}

// Step performs a single episode step: act greedily, observe the noisy
// transition and update the estimate of the attempted action.
//
// The estimate updated is the one of the action the policy chose, even
// if noise made the agent move differently: the learner estimates the
// value of attempting an action, noise included. If the previous step
// reached an exit the agent is reset first.
func (q *QLearning) Step() error {
	if q.env.IsTerminal() {
		q.env.Reset(q.randomReset)
	}

	from := q.env.Position()
	cell := q.env.Cell(from)
	action := q.SelectAction(from)

	step, last := q.env.Step(action)

	if _, err := cell.UpdateEstimate(action, step.Reward,
		q.learningRate); err != nil {
		return fmt.Errorf("step %d: %w", q.done+1, err)
	}
	if err := cell.SetLearnedValue(cell.MaxEstimate()); err != nil {
		return fmt.Errorf("step %d: %w", q.done+1, err)
	}

	if last {
		exit := q.env.Cell(q.env.Position())
		if err := exit.SetLearnedValue(exit.TrueValue()); err != nil {
			return fmt.Errorf("step %d: %w", q.done+1, err)
		}
	}

	q.done++
	return nil
}

// Run performs all configured episodes. There is no convergence check.
func (q *QLearning) Run() error {
	return agent.Run(q, q.episodes-q.done)
}

// Iterations returns the number of episodes Run performs
func (q *QLearning) Iterations() int {
	return q.episodes
}

// Episodes returns the number of episodes performed so far
func (q *QLearning) Episodes() int {
	return q.done
}

// LearningRate returns the step size of the moving average
func (q *QLearning) LearningRate() float64 {
	return q.learningRate
}

// SelectAction selects a greedy action at p with respect to the action
// estimates of the cell, breaking ties uniformly at random
func (q *QLearning) SelectAction(p environment.Position) environment.Action {
	best := q.greedy(p)
	return best[q.rng.Intn(len(best))]
}

// BestActions returns all actions with the maximal estimate at p. Only
// Empty cells have a policy, other cells return no actions.
func (q *QLearning) BestActions(p environment.Position) []environment.Action {
	if !q.env.IsEmpty(p) {
		return nil
	}
	return q.greedy(p)
}

func (q *QLearning) greedy(p environment.Position) []environment.Action {
	estimates := q.env.Cell(p).Estimates()
	_, indices := floatutils.MaxSlice(estimates[:])

	actions := make([]environment.Action, len(indices))
	for i, ind := range indices {
		actions[i] = environment.Actions[ind]
	}
	return actions
}

// Package gridworld implements 2D gridworld environments with boulders,
// exits, and noisy actions
package gridworld

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/timestep"
	"github.com/samuelfneumann/gridmdp/utils/floatutils"
	"github.com/samuelfneumann/gridmdp/utils/matutils"
)

// directionOrder is the order in which BestActionFromState tries
// actions. Ties keep the earliest action in this order.
var directionOrder = [environment.NumActions]environment.Action{
	environment.Up,
	environment.Down,
	environment.Right,
	environment.Left,
}

// GridWorld represents a gridworld environment
//
// The grid is stored row-major as grid[y][x] with y = 0 the top row.
// An agent moves between cells with the four directional actions.
// When noise is enabled, an action is replaced with probability noise
// by one of the two actions orthogonal to it. Moves off the grid or
// into a boulder leave the agent where it is.
type GridWorld struct {
	Task
	environment.Starter
	randomStarter environment.Starter

	grid     [][]*Cell
	r, c     int
	position environment.Position
	noise    float64

	rng     *rand.Rand
	uniform distuv.Uniform

	currentStep timestep.TimeStep
}

// New creates a new GridWorld. All randomness of the GridWorld is drawn
// from source, which may be shared with an agent so that a whole run
// is determined by a single seed.
func New(grid [][]*Cell, start environment.Position, noise, stepCost,
	discount float64, source rand.Source) (*GridWorld, error) {
	r := len(grid)
	if r == 0 || len(grid[0]) == 0 {
		return nil, fmt.Errorf("new: grid must have at least one cell")
	}
	c := len(grid[0])

	for y, row := range grid {
		if len(row) != c {
			return nil, fmt.Errorf("new: row %d has %d cells, want %d", y,
				len(row), c)
		}
		for x, cell := range row {
			if cell == nil {
				return nil, fmt.Errorf("new: missing cell at (%d, %d)", x, y)
			}
			if p := cell.Position(); p.X != x || p.Y != y {
				return nil, fmt.Errorf("new: cell at (%d, %d) has position %v",
					x, y, p)
			}
		}
	}

	if !floatutils.InInterval(noise, Probability) {
		return nil, fmt.Errorf("new: noise %v not in [%v, %v]", noise,
			Probability.Min, Probability.Max)
	}

	task, err := NewTask(stepCost, discount)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	starter, err := NewSingleStart(start.X, start.Y, r, c)
	if err != nil {
		return nil, fmt.Errorf("new: invalid start: %v: %w", err,
			ErrOutOfBounds)
	}
	if kind := grid[start.Y][start.X].Kind(); kind != Empty {
		return nil, fmt.Errorf("new: start %v must be an empty cell, "+
			"not %v", start, kind)
	}

	g := &GridWorld{
		Task:    task,
		Starter: starter,
		grid:    grid,
		r:       r,
		c:       c,
		noise:   noise,
		rng:     rand.New(source),
		uniform: distuv.Uniform{Min: 0, Max: 1, Src: source},
	}
	g.randomStarter = environment.NewCategoricalStarter(g.EmptyCells(),
		source)
	g.Reset(false)

	return g, nil
}

// Dims gets the rows and columns of the GridWorld
func (g *GridWorld) Dims() (r, c int) {
	return g.r, g.c
}

// InBounds returns whether p addresses a cell of the grid
func (g *GridWorld) InBounds(p environment.Position) bool {
	return p.X >= 0 && p.X < g.c && p.Y >= 0 && p.Y < g.r
}

// Cell returns the cell at position p. Cell panics if p is outside the
// grid.
func (g *GridWorld) Cell(p environment.Position) *Cell {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("cell: position %v outside grid bounds (%d, %d)",
			p, g.c, g.r))
	}
	return g.grid[p.Y][p.X]
}

// At returns the cell at column x and row y
func (g *GridWorld) At(x, y int) *Cell {
	return g.Cell(environment.Position{X: x, Y: y})
}

// IsEmpty returns whether the cell at p is an Empty cell
func (g *GridWorld) IsEmpty(p environment.Position) bool {
	return g.InBounds(p) && g.Cell(p).Kind() == Empty
}

// EmptyCells returns the positions of all Empty cells in row-major
// order
func (g *GridWorld) EmptyCells() []environment.Position {
	var positions []environment.Position
	for y := range g.grid {
		for x, cell := range g.grid[y] {
			if cell.Kind() == Empty {
				positions = append(positions, environment.Position{X: x, Y: y})
			}
		}
	}
	return positions
}

// Noise returns the probability that an action is perturbed
func (g *GridWorld) Noise() float64 {
	return g.noise
}

// Position returns the position of the agent
func (g *GridWorld) Position() environment.Position {
	return g.position
}

// SetPosition moves the agent to p. Positions off the grid or on a
// boulder are rejected.
func (g *GridWorld) SetPosition(p environment.Position) error {
	if !g.InBounds(p) || g.Cell(p).Kind() == Boulder {
		return fmt.Errorf("setPosition: %v: %w", p, ErrOutOfBounds)
	}
	g.position = p
	return nil
}

// CanMove returns whether the agent can take action a from its current
// position
func (g *GridWorld) CanMove(a environment.Action) bool {
	return g.CanMoveFrom(g.position, a)
}

// CanMoveFrom returns whether action a taken at p keeps the agent in
// bounds and off boulders. Stay is always legal.
func (g *GridWorld) CanMoveFrom(p environment.Position,
	a environment.Action) bool {
	if a == environment.Stay {
		return true
	}
	if !a.Valid() {
		return false
	}

	next := p.Move(a)
	return g.InBounds(next) && g.Cell(next).Kind() != Boulder
}

// transition returns the position reached by taking a at p, without
// noise
func (g *GridWorld) transition(p environment.Position,
	a environment.Action) environment.Position {
	if !g.CanMoveFrom(p, a) {
		return p
	}
	return p.Move(a)
}

// rewardFrom returns the reward of taking a at p without noise
func (g *GridWorld) rewardFrom(p environment.Position, a environment.Action,
	useTrueValue bool) float64 {
	return g.Reward(g.Cell(g.transition(p, a)), useTrueValue)
}

// perturb returns one of the actions orthogonal to a, uniformly
func (g *GridWorld) perturb(a environment.Action) environment.Action {
	return a.Orthogonal()[g.rng.Intn(2)]
}

// ApplyAction moves the agent and returns the reward of the move.
//
// If withNoise is set the action is replaced, with probability noise,
// by a uniformly chosen orthogonal action. An illegal action becomes
// Stay. The reward is the step cost plus the discounted true value of
// the destination if useTrueValue is set, or its learned value if not.
func (g *GridWorld) ApplyAction(a environment.Action, withNoise,
	useTrueValue bool) float64 {
	if withNoise {
		if u := g.uniform.Rand(); g.noise > 0 && u <= g.noise {
			a = g.perturb(a)
		}
	}
	if !g.CanMove(a) {
		a = environment.Stay
	}

	g.position = g.position.Move(a)
	return g.Reward(g.Cell(g.position), useTrueValue)
}

// ExpectedActionReward returns the noise-weighted expected reward of
// taking a from the agent's position, using true values. The agent is
// not moved.
func (g *GridWorld) ExpectedActionReward(a environment.Action) float64 {
	return g.ExpectedActionRewardFrom(g.position, a)
}

// ExpectedActionRewardFrom returns the noise-weighted expected reward of
// taking a at the probe position p, using true values:
//
//	(1 - noise) r(a) + noise/2 r(o1) + noise/2 r(o2)
//
// where o1 and o2 are the actions orthogonal to a.
func (g *GridWorld) ExpectedActionRewardFrom(p environment.Position,
	a environment.Action) float64 {
	var reward float64
	for _, o := range a.Orthogonal() {
		reward += g.rewardFrom(p, o, true) * g.noise / 2
	}
	reward += g.rewardFrom(p, a, true) * (1 - g.noise)
	return reward
}

// BestActionFromState returns the legal action with the highest
// expected reward at p under the current true values. Actions are tried
// in the order Up, Down, Right, Left and ties keep the first. If no
// directional action is legal, Stay is returned.
func (g *GridWorld) BestActionFromState(p environment.Position) environment.Action {
	best := environment.Stay
	var bestReward float64
	for _, a := range directionOrder {
		if !g.CanMoveFrom(p, a) {
			continue
		}
		reward := g.ExpectedActionRewardFrom(p, a)
		if best == environment.Stay || reward > bestReward {
			best, bestReward = a, reward
		}
	}
	return best
}

// Reset moves the agent to the start position, or to a uniformly
// random Empty cell if random is set, and begins a new episode
func (g *GridWorld) Reset(random bool) timestep.TimeStep {
	if random {
		g.position = g.randomStarter.Start()
	} else {
		g.position = g.Start()
	}

	obs := environment.Observation(g.position)
	g.currentStep = timestep.New(timestep.First, 0, g.Discount(), obs, 0)
	return g.currentStep
}

// Step takes one noisy step in the environment, valuing the destination
// by its learned value. The returned bool reports whether the step
// reached an exit.
func (g *GridWorld) Step(a environment.Action) (timestep.TimeStep, bool) {
	reward := g.ApplyAction(a, true, false)

	stepType := timestep.Mid
	if g.IsTerminal() {
		stepType = timestep.Last
	}

	obs := environment.Observation(g.position)
	number := g.currentStep.Number + 1
	g.currentStep = timestep.New(stepType, reward, g.Discount(), obs, number)

	return g.currentStep, stepType == timestep.Last
}

// LastTimeStep returns the most recent TimeStep of the environment
func (g *GridWorld) LastTimeStep() timestep.TimeStep {
	return g.currentStep
}

// IsTerminal returns whether the agent is on an exit
func (g *GridWorld) IsTerminal() bool {
	return g.AtGoal(g.Cell(g.position))
}

// TrueValues returns the true values of all cells as an r x c matrix
func (g *GridWorld) TrueValues() *mat.Dense {
	return g.values((*Cell).TrueValue)
}

// LearnedValues returns the learned values of all cells as an r x c
// matrix
func (g *GridWorld) LearnedValues() *mat.Dense {
	return g.values((*Cell).LearnedValue)
}

func (g *GridWorld) values(value func(*Cell) float64) *mat.Dense {
	values := mat.NewDense(g.r, g.c, nil)
	for y := range g.grid {
		for x, cell := range g.grid[y] {
			values.Set(y, x, value(cell))
		}
	}
	return values
}

func (g *GridWorld) String() string {
	str := "GridWorld | At: %v  |  Bounds: (%d, %d)  |  Noise: %.2f  |  %v" +
		"\n%v"
	return fmt.Sprintf(str, g.position, g.c, g.r, g.noise, g.Task,
		matutils.Format(g.TrueValues()))
}

package gridworld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/timestep"
)

const epsilon = 1e-9

// corridor returns a 3x1 GridWorld: two empty cells followed by an
// exit with reward 10, starting on the left
func corridor(t testing.TB, noise, stepCost, discount float64,
	seed uint64) *GridWorld {
	grid := [][]*Cell{{NewEmpty(0, 0), NewEmpty(1, 0), NewExit(2, 0, 10)}}
	g, err := New(grid, environment.Position{}, noise, stepCost, discount,
		rand.NewSource(seed))
	require.NoError(t, err)
	return g
}

// room returns the 4x3 GridWorld
//
//	. . . +1
//	. # . -1
//	S . . .
func room(t testing.TB, noise float64, seed uint64) *GridWorld {
	grid := make([][]*Cell, 3)
	for y := range grid {
		grid[y] = make([]*Cell, 4)
		for x := range grid[y] {
			grid[y][x] = NewEmpty(x, y)
		}
	}
	grid[0][3] = NewExit(3, 0, 1)
	grid[1][3] = NewExit(3, 1, -1)
	grid[1][1] = NewBoulder(1, 1)

	g, err := New(grid, environment.Position{X: 0, Y: 2}, noise, -0.04, 0.9,
		rand.NewSource(seed))
	require.NoError(t, err)
	return g
}

// open returns a 3x3 GridWorld of empty cells starting in the centre
func open(t testing.TB, noise float64, seed uint64) *GridWorld {
	grid := make([][]*Cell, 3)
	for y := range grid {
		grid[y] = make([]*Cell, 3)
		for x := range grid[y] {
			grid[y][x] = NewEmpty(x, y)
		}
	}

	g, err := New(grid, environment.Position{X: 1, Y: 1}, noise, -1, 0.9,
		rand.NewSource(seed))
	require.NoError(t, err)
	return g
}

func TestNew(t *testing.T) {
	source := rand.NewSource(1)
	row := func() [][]*Cell {
		return [][]*Cell{{NewEmpty(0, 0), NewBoulder(1, 0), NewExit(2, 0, 1)}}
	}

	t.Run("Valid", func(t *testing.T) {
		g, err := New(row(), environment.Position{}, 0.2, -1, 0.9, source)
		require.NoError(t, err)
		r, c := g.Dims()
		assert.Equal(t, 1, r)
		assert.Equal(t, 3, c)
		assert.Equal(t, environment.Position{}, g.Position())
		assert.Equal(t, timestep.First, g.LastTimeStep().StepType)
	})

	t.Run("Empty grid", func(t *testing.T) {
		_, err := New(nil, environment.Position{}, 0, -1, 0.9, source)
		assert.Error(t, err)
	})

	t.Run("Ragged grid", func(t *testing.T) {
		grid := [][]*Cell{{NewEmpty(0, 0), NewEmpty(1, 0)}, {NewEmpty(0, 1)}}
		_, err := New(grid, environment.Position{}, 0, -1, 0.9, source)
		assert.Error(t, err)
	})

	t.Run("Misplaced cell", func(t *testing.T) {
		grid := [][]*Cell{{NewEmpty(0, 0), NewEmpty(0, 0)}}
		_, err := New(grid, environment.Position{}, 0, -1, 0.9, source)
		assert.Error(t, err)
	})

	t.Run("Noise outside [0, 1]", func(t *testing.T) {
		_, err := New(row(), environment.Position{}, 1.5, -1, 0.9, source)
		assert.Error(t, err)
	})

	t.Run("Discount outside [0, 1]", func(t *testing.T) {
		_, err := New(row(), environment.Position{}, 0, -1, -0.1, source)
		assert.Error(t, err)
	})

	t.Run("Start outside grid", func(t *testing.T) {
		_, err := New(row(), environment.Position{X: 5}, 0, -1, 0.9, source)
		assert.ErrorIs(t, err, ErrOutOfBounds)
	})

	t.Run("Start on boulder", func(t *testing.T) {
		_, err := New(row(), environment.Position{X: 1}, 0, -1, 0.9, source)
		assert.Error(t, err)
	})
}

func TestCanMoveFrom(t *testing.T) {
	g := room(t, 0, 1)
	r, c := g.Dims()

	// No legal move ever ends on a boulder or off the grid
	for y := 0; y < r; y++ {
		for x := 0; x < c; x++ {
			p := environment.Position{X: x, Y: y}
			for _, a := range environment.Actions {
				if !g.CanMoveFrom(p, a) {
					continue
				}
				next := p.Move(a)
				require.True(t, g.InBounds(next), "%v from %v", a, p)
				assert.NotEqual(t, Boulder, g.Cell(next).Kind(), "%v from %v",
					a, p)
			}
		}
	}

	start := environment.Position{X: 0, Y: 2}
	assert.False(t, g.CanMoveFrom(start, environment.Left))
	assert.False(t, g.CanMoveFrom(start, environment.Down))
	assert.True(t, g.CanMoveFrom(start, environment.Up))
	assert.True(t, g.CanMoveFrom(start, environment.Stay))
	assert.False(t, g.CanMoveFrom(environment.Position{X: 1, Y: 2},
		environment.Up))
	assert.True(t, g.CanMoveFrom(environment.Position{X: 2, Y: 0},
		environment.Right), "exits can be entered")
	assert.True(t, g.CanMove(environment.Right))
}

func TestSetPosition(t *testing.T) {
	g := room(t, 0, 1)

	assert.ErrorIs(t, g.SetPosition(environment.Position{X: -1, Y: 0}),
		ErrOutOfBounds)
	assert.ErrorIs(t, g.SetPosition(environment.Position{X: 1, Y: 1}),
		ErrOutOfBounds)
	assert.Equal(t, environment.Position{X: 0, Y: 2}, g.Position())

	require.NoError(t, g.SetPosition(environment.Position{X: 2, Y: 1}))
	assert.Equal(t, environment.Position{X: 2, Y: 1}, g.Position())
}

func TestApplyActionDeterministic(t *testing.T) {
	g := corridor(t, 0, -1, 0.9, 1)

	reward := g.ApplyAction(environment.Left, false, true)
	assert.Equal(t, environment.Position{}, g.Position(), "wall")
	assert.InDelta(t, -1.0, reward, epsilon)

	reward = g.ApplyAction(environment.Right, false, true)
	assert.Equal(t, environment.Position{X: 1}, g.Position())
	assert.InDelta(t, -1.0, reward, epsilon)

	reward = g.ApplyAction(environment.Right, false, true)
	assert.Equal(t, environment.Position{X: 2}, g.Position())
	assert.InDelta(t, 8.0, reward, epsilon)
	assert.True(t, g.IsTerminal())

	// Learned values start at zero, even for exits
	require.NoError(t, g.SetPosition(environment.Position{X: 1}))
	reward = g.ApplyAction(environment.Right, false, false)
	assert.InDelta(t, -1.0, reward, epsilon)
}

func TestApplyActionBoulder(t *testing.T) {
	g := room(t, 0, 1)
	require.NoError(t, g.SetPosition(environment.Position{X: 1, Y: 2}))

	g.ApplyAction(environment.Up, false, true)
	assert.Equal(t, environment.Position{X: 1, Y: 2}, g.Position())
}

func TestApplyActionNoise(t *testing.T) {
	// With certain noise every move along the corridor is replaced by
	// Up or Down, which are walls
	g := corridor(t, 1, -1, 0.9, 7)
	for i := 0; i < 50; i++ {
		g.ApplyAction(environment.Right, true, true)
		assert.Equal(t, environment.Position{}, g.Position())
	}

	// Without noise the same draws never perturb
	g = corridor(t, 0, -1, 0.9, 7)
	g.ApplyAction(environment.Right, true, true)
	assert.Equal(t, environment.Position{X: 1}, g.Position())
}

func TestApplyActionNoiseOrthogonal(t *testing.T) {
	// Certain noise always replaces Right by Up or Down, chosen uniformly
	g := open(t, 1, 11)
	centre := environment.Position{X: 1, Y: 1}
	counts := make(map[environment.Position]int)
	for i := 0; i < 200; i++ {
		require.NoError(t, g.SetPosition(centre))
		g.ApplyAction(environment.Right, true, true)
		counts[g.Position()]++
	}

	up, down := centre.Move(environment.Up), centre.Move(environment.Down)
	assert.Greater(t, counts[up], 0, "never moved up")
	assert.Greater(t, counts[down], 0, "never moved down")
	assert.Equal(t, 200, counts[up]+counts[down], "moved along the action")
}

func TestExpectedActionReward(t *testing.T) {
	t.Run("Noiseless equals deterministic", func(t *testing.T) {
		g := room(t, 0, 1)
		for _, p := range g.EmptyCells() {
			for _, a := range environment.Actions {
				want := g.rewardFrom(p, a, true)
				assert.InDelta(t, want, g.ExpectedActionRewardFrom(p, a),
					epsilon)
			}
		}
	})

	t.Run("Noisy corridor", func(t *testing.T) {
		g := corridor(t, 0.2, -1, 0.9, 1)
		p := environment.Position{X: 1}

		// Up and Down are walls, so noise keeps the agent in place
		want := 0.8*(-1+0.9*10) + 0.2*(-1+0.9*0)
		assert.InDelta(t, want, g.ExpectedActionRewardFrom(p,
			environment.Right), epsilon)

		require.NoError(t, g.At(1, 0).SetTrueValue(5))
		want = 0.8*(-1+0.9*10) + 0.2*(-1+0.9*5)
		assert.InDelta(t, want, g.ExpectedActionRewardFrom(p,
			environment.Right), epsilon)
	})

	t.Run("Orthogonal outcomes", func(t *testing.T) {
		g := room(t, 0.2, 1)
		require.NoError(t, g.At(2, 2).SetTrueValue(0.5))
		require.NoError(t, g.At(1, 2).SetTrueValue(0.25))

		// From (2, 1) Down reaches (2, 2), Left is the boulder and Right
		// is the -1 exit
		p := environment.Position{X: 2, Y: 1}
		want := 0.8*(-0.04+0.9*0.5) + 0.1*(-0.04+0.9*0) +
			0.1*(-0.04+0.9*-1)
		assert.InDelta(t, want, g.ExpectedActionRewardFrom(p,
			environment.Down), epsilon)
	})

	t.Run("Probe does not move the agent", func(t *testing.T) {
		g := room(t, 0.2, 1)
		before := g.Position()
		g.ExpectedActionReward(environment.Up)
		g.ExpectedActionRewardFrom(environment.Position{X: 2, Y: 0},
			environment.Right)
		assert.Equal(t, before, g.Position())
	})
}

func TestBestActionFromState(t *testing.T) {
	g := corridor(t, 0, -1, 0.9, 1)
	assert.Equal(t, environment.Right,
		g.BestActionFromState(environment.Position{X: 1}))

	// All values are zero at (0, 0): Right is the only legal action
	assert.Equal(t, environment.Right,
		g.BestActionFromState(environment.Position{}))

	// Ties keep the first legal action in the order Up, Down, Right, Left
	flat := open(t, 0, 1)
	assert.Equal(t, environment.Up,
		flat.BestActionFromState(environment.Position{X: 1, Y: 1}))
	assert.Equal(t, environment.Down,
		flat.BestActionFromState(environment.Position{X: 0, Y: 0}))
	assert.Equal(t, environment.Up,
		flat.BestActionFromState(environment.Position{X: 2, Y: 2}))
	assert.Equal(t, environment.Down,
		flat.BestActionFromState(environment.Position{X: 2, Y: 0}))

	noisy := open(t, 0.2, 1)
	assert.Equal(t, environment.Up,
		noisy.BestActionFromState(environment.Position{X: 1, Y: 1}))

	// A single cell has no legal directional move
	single, err := New([][]*Cell{{NewEmpty(0, 0)}}, environment.Position{},
		0, -1, 0.9, rand.NewSource(1))
	require.NoError(t, err)
	assert.Equal(t, environment.Stay,
		single.BestActionFromState(environment.Position{}))
}

func TestResetAndStep(t *testing.T) {
	g := corridor(t, 0, -1, 0.9, 1)

	step, last := g.Step(environment.Right)
	assert.False(t, last)
	assert.Equal(t, timestep.Mid, step.StepType)
	assert.Equal(t, 1, step.Number)

	step, last = g.Step(environment.Right)
	assert.True(t, last)
	assert.True(t, step.Last())
	assert.Equal(t, 2, step.Number)
	assert.Equal(t, environment.Position{X: 2},
		environment.FromObservation(step.Observation))

	step = g.Reset(false)
	assert.True(t, step.First())
	assert.Equal(t, 0, step.Number)
	assert.Equal(t, environment.Position{}, g.Position())
	assert.False(t, g.IsTerminal())
}

func TestRandomReset(t *testing.T) {
	g := room(t, 0, 3)
	seen := make(map[environment.Position]bool)
	for i := 0; i < 500; i++ {
		g.Reset(true)
		require.True(t, g.IsEmpty(g.Position()), "reset to %v", g.Position())
		seen[g.Position()] = true
	}
	assert.Len(t, seen, len(g.EmptyCells()))
}

func TestValues(t *testing.T) {
	g := room(t, 0, 1)
	require.NoError(t, g.At(0, 2).SetTrueValue(2))
	require.NoError(t, g.At(0, 2).SetLearnedValue(3))

	values := g.TrueValues()
	r, c := values.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, 2.0, values.At(2, 0))
	assert.Equal(t, 1.0, values.At(0, 3))
	assert.Equal(t, -1.0, values.At(1, 3))
	assert.Equal(t, 3.0, g.LearnedValues().At(2, 0))
}

func BenchmarkExpectedActionRewardFrom(b *testing.B) {
	g := room(b, 0.2, 1)
	p := environment.Position{X: 2, Y: 1}
	for i := 0; i < b.N; i++ {
		g.ExpectedActionRewardFrom(p, environment.Actions[i%4])
	}
}

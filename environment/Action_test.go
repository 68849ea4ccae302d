package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func TestActionDelta(t *testing.T) {
	p := Position{X: 2, Y: 2}
	assert.Equal(t, Position{X: 2, Y: 1}, p.Move(Up))
	assert.Equal(t, Position{X: 2, Y: 3}, p.Move(Down))
	assert.Equal(t, Position{X: 1, Y: 2}, p.Move(Left))
	assert.Equal(t, Position{X: 3, Y: 2}, p.Move(Right))
	assert.Equal(t, p, p.Move(Stay))
}

func TestActionOrthogonal(t *testing.T) {
	for _, a := range Actions {
		for _, o := range a.Orthogonal() {
			ax, ay := a.Delta()
			ox, oy := o.Delta()
			assert.Zero(t, ax*ox+ay*oy, "%v and %v", a, o)
			assert.True(t, o.Valid())
		}
	}
	assert.Equal(t, [2]Action{Stay, Stay}, Stay.Orthogonal())
}

func TestActionValid(t *testing.T) {
	for i, a := range Actions {
		assert.True(t, a.Valid())
		assert.Equal(t, i, int(a), "table order")
	}
	assert.False(t, Stay.Valid())
	assert.False(t, Action(-1).Valid())
	assert.Equal(t, "RIGHT", Right.String())
	assert.Equal(t, "Action(9)", Action(9).String())
}

func TestObservation(t *testing.T) {
	p := Position{X: 3, Y: 1}
	obs := Observation(p)
	assert.Equal(t, 2, obs.Len())
	assert.Equal(t, p, FromObservation(obs))
	assert.Equal(t, "(3, 1)", p.String())
}

func TestCategoricalStarter(t *testing.T) {
	positions := []Position{{0, 0}, {1, 0}, {4, 2}}
	s := NewCategoricalStarter(positions, rand.NewSource(5))

	counts := make(map[Position]int)
	for i := 0; i < 300; i++ {
		counts[s.Start()]++
	}
	assert.Len(t, counts, len(positions))
	for _, p := range positions {
		assert.Greater(t, counts[p], 0, "%v never started", p)
	}

	assert.Panics(t, func() { NewCategoricalStarter(nil, rand.NewSource(5)) })
}

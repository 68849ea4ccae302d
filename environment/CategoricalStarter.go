package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalStarter returns starting positions sampled from a uniform
// categorical distribution over a fixed set of candidate positions
type CategoricalStarter struct {
	positions []Position
	rand      distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter sampling
// uniformly from positions. The source is shared, not copied, so that
// a single seeded source drives every random choice of a run.
func NewCategoricalStarter(positions []Position,
	source rand.Source) *CategoricalStarter {
	if len(positions) == 0 {
		panic("newCategoricalStarter: no positions to sample from")
	}

	weights := make([]float64, len(positions))
	for i := range weights {
		weights[i] = 1.0 / float64(len(weights))
	}

	return &CategoricalStarter{
		positions: positions,
		rand:      distuv.NewCategorical(weights, source),
	}
}

// Start returns a starting position
func (c *CategoricalStarter) Start() Position {
	return c.positions[int(c.rand.Rand())]
}

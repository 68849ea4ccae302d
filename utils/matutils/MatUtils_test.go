package matutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestMaxAbsDiff(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(2, 2, []float64{1, 5, 3, 3.5})
	assert.Equal(t, 3.0, MaxAbsDiff(a, b))
	assert.Equal(t, 3.0, MaxAbsDiff(b, a))
	assert.Zero(t, MaxAbsDiff(a, a))
}

func TestFormat(t *testing.T) {
	s := Format(mat.NewDense(1, 2, []float64{1, 2}))
	assert.Contains(t, s, "1")
	assert.Contains(t, s, "2")
}

package timestep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepTypes(t *testing.T) {
	first := New(First, 0, 0.9, nil, 0)
	assert.True(t, first.First())
	assert.False(t, first.Mid())
	assert.False(t, first.Last())

	last := New(Last, 8, 0.9, nil, 3)
	assert.True(t, last.Last())
	assert.Equal(t, "Last", last.StepType.String())
	assert.Equal(t, "TimeStep | Type: Last  |  Reward:  8.00  |  "+
		"Discount: 0.90  |  Step Number:  3", last.String())
}

// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// InInterval returns whether value lies in the closed interval. NaN is
// never in an interval.
func InInterval(value float64, interval r1.Interval) bool {
	return value >= interval.Min && value <= interval.Max
}

// MaxSlice gets the maximum value and indices of the maximum values in
// a slice of float64. Every index holding the maximum is returned, in
// increasing order.
func MaxSlice(values []float64) (max float64, indices []int) {
	max = floats.Max(values)

	for i, value := range values {
		if value == max {
			indices = append(indices, i)
		}
	}
	return
}

// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// MaxAbsDiff returns the largest absolute element-wise difference
// between two matrices of the same shape
func MaxAbsDiff(a, b mat.Matrix) float64 {
	var diff mat.Dense
	diff.Sub(a, b)

	r, c := diff.Dims()
	if r == 0 || c == 0 {
		return 0
	}

	max := 0.0
	for i := 0; i < r; i++ {
		max = math.Max(max, floats.Norm(diff.RawRowView(i), math.Inf(1)))
	}
	return max
}

package vector

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrDimensionMismatch is returned when vector dimensions don't match
var ErrDimensionMismatch = errors.New("vector dimensions mismatch")

// ErrEmpty is returned when an operation needs at least one vector
var ErrEmpty = errors.New("no vectors")

func checkDims(a, b []float64) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	return nil
}

// EuclideanDistance calculates the Euclidean (L2) distance between two vectors
// Formula: sqrt(sum((a[i] - b[i])^2))
// Returns error if vector dimensions don't match
func EuclideanDistance(a, b []float64) (float64, error) {
	if err := checkDims(a, b); err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 0, nil
	}
	return floats.Distance(a, b, 2), nil
}

// SquaredEuclidean calculates sum((a[i] - b[i])^2) without the square root.
func SquaredEuclidean(a, b []float64) (float64, error) {
	if err := checkDims(a, b); err != nil {
		return 0, err
	}

	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum, nil
}

// Mean returns the component-wise mean of vectors.
// All vectors must share the dimensionality of the first one.
func Mean(vectors [][]float64) ([]float64, error) {
	if len(vectors) == 0 {
		return nil, ErrEmpty
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	for _, v := range vectors {
		if err := checkDims(sum, v); err != nil {
			return nil, err
		}
		floats.Add(sum, v)
	}
	floats.Scale(1/float64(len(vectors)), sum)

	return sum, nil
}

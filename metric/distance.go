package metric

import (
	"fmt"
	"math"

	"github.com/viant/logosim/descriptor"
)

// L2 computes the Euclidean distance between two vectors. It returns an error
// if the vectors have different lengths.
func L2(a, b descriptor.Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("metric: L2 distance dimension mismatch: %d vs %d: %w", len(a), len(b), descriptor.ErrInvalidInput)
	}
	return math.Sqrt(sqL2(a, b)), nil
}

// L1 computes the Manhattan distance between two vectors.
func L1(a, b descriptor.Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("metric: L1 distance dimension mismatch: %d vs %d: %w", len(a), len(b), descriptor.ErrInvalidInput)
	}
	return l1(a, b), nil
}

// Cosine computes the cosine similarity between two vectors. It returns an
// error if the vectors have different lengths or if either vector has zero
// magnitude.
func Cosine(a, b descriptor.Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("metric: cosine similarity dimension mismatch: %d vs %d: %w", len(a), len(b), descriptor.ErrInvalidInput)
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("metric: cosine similarity on empty vectors: %w", descriptor.ErrInvalidInput)
	}
	na, nb := math.Sqrt(dot(a, a)), math.Sqrt(dot(b, b))
	if na == 0 || nb == 0 {
		return 0, fmt.Errorf("metric: cosine similarity with zero-magnitude vector: %w", descriptor.ErrInvalidInput)
	}
	return clamp(dot(a, b) / (na * nb)), nil
}

func dot(a, b descriptor.Vector) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func sqL2(a, b descriptor.Vector) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func l1(a, b descriptor.Vector) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(float64(a[i]) - float64(b[i]))
	}
	return sum
}

// clamp keeps rounding noise from pushing a cosine outside [-1, 1].
func clamp(c float64) float64 {
	return math.Min(math.Max(c, -1), 1)
}

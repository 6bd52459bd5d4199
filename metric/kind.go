package metric

import (
	"fmt"
	"strings"

	"github.com/viant/logosim/descriptor"
)

// Kind enumerates the supported pairwise metrics.
type Kind string

const (
	KindEuclideanDistance   Kind = "euclidean-distance"
	KindManhattanDistance   Kind = "manhattan-distance"
	KindCosineDistance      Kind = "cosine-distance"
	KindEuclideanSimilarity Kind = "euclidean-similarity"
	KindManhattanSimilarity Kind = "manhattan-similarity"
	KindCosineSimilarity    Kind = "cosine-similarity"
	KindRBFKernel           Kind = "rbf-kernel"
	KindPolynomialKernel    Kind = "polynomial-kernel"
	KindSigmoidKernel       Kind = "sigmoid-kernel"
)

// Kinds lists every supported kind.
var Kinds = []Kind{
	KindEuclideanDistance,
	KindManhattanDistance,
	KindCosineDistance,
	KindEuclideanSimilarity,
	KindManhattanSimilarity,
	KindCosineSimilarity,
	KindRBFKernel,
	KindPolynomialKernel,
	KindSigmoidKernel,
}

// ParseKind resolves a kind name. Matching ignores case and accepts '_' in
// place of '-'.
func ParseKind(name string) (Kind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for _, k := range Kinds {
		if string(k) == normalized {
			return k, nil
		}
	}
	return "", fmt.Errorf("metric: unknown kind %q: %w", name, descriptor.ErrInvalidInput)
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	for _, c := range Kinds {
		if c == k {
			return true
		}
	}
	return false
}

// IsDistance reports whether smaller values mean more similar logos.
func (k Kind) IsDistance() bool {
	switch k {
	case KindEuclideanDistance, KindManhattanDistance, KindCosineDistance:
		return true
	}
	return false
}

// Normalized reports whether the kind is a distance, or a similarity whose
// value for identical vectors is exactly 1 and never exceeds it.
// Polynomial and sigmoid kernels are unbounded in that sense.
func (k Kind) Normalized() bool {
	switch k {
	case KindPolynomialKernel, KindSigmoidKernel:
		return false
	}
	return k.Valid()
}

// identity returns the diagonal value for normalized kinds.
func (k Kind) identity() (float64, bool) {
	if !k.Normalized() {
		return 0, false
	}
	if k.IsDistance() {
		return 0, true
	}
	return 1, true
}

func (k Kind) String() string { return string(k) }

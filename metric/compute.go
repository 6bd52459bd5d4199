package metric

import (
	"fmt"
	"math"

	"github.com/viant/logosim/descriptor"
	"github.com/viant/vec/search"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultRBFGamma is the rbf-kernel gamma used when none is configured.
	DefaultRBFGamma = 0.1
	// DefaultPolynomialDegree is the polynomial-kernel degree used when none is configured.
	DefaultPolynomialDegree = 3
	// DefaultCoef0 is the polynomial/sigmoid kernel offset used when none is configured.
	DefaultCoef0 = 1.0
)

type options struct {
	gamma       float64
	hasGamma    bool
	degree      int
	coef0       float64
	hasCoef0    bool
	parallelism int
}

// Option customizes Compute.
type Option func(*options)

// WithGamma sets the kernel gamma. Defaults: DefaultRBFGamma for rbf-kernel,
// 1/dim for polynomial and sigmoid kernels. The rbf-kernel gamma must be
// positive.
func WithGamma(gamma float64) Option {
	return func(o *options) { o.gamma, o.hasGamma = gamma, true }
}

// WithDegree sets the polynomial-kernel degree.
func WithDegree(degree int) Option {
	return func(o *options) { o.degree = degree }
}

// WithCoef0 sets the polynomial/sigmoid kernel offset.
func WithCoef0(coef0 float64) Option {
	return func(o *options) { o.coef0, o.hasCoef0 = coef0, true }
}

// WithParallelism computes rows in n contiguous blocks concurrently. Values
// below 2 compute sequentially. The result does not depend on n.
func WithParallelism(n int) Option {
	return func(o *options) { o.parallelism = n }
}

func (o *options) resolve(kind Kind, dim int) {
	if !o.hasGamma {
		switch kind {
		case KindRBFKernel:
			o.gamma = DefaultRBFGamma
		default:
			o.gamma = 1 / float64(dim)
		}
	}
	if o.degree <= 0 {
		o.degree = DefaultPolynomialDegree
	}
	if !o.hasCoef0 {
		o.coef0 = DefaultCoef0
	}
}

// Compute builds the pairwise matrix of set under kind. An empty set is
// invalid input; a single vector yields a 1×1 matrix holding the identity
// value. Only the upper triangle is computed; the symmetric storage mirrors
// it, so m[i][j] == m[j][i] exactly.
func Compute(set *descriptor.Set, kind Kind, opts ...Option) (*Matrix, error) {
	if set == nil || set.Len() == 0 {
		return nil, fmt.Errorf("metric: empty descriptor set: %w", descriptor.ErrInvalidInput)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("metric: unknown kind %q: %w", kind, descriptor.ErrInvalidInput)
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	o.resolve(kind, set.Dim())
	if kind == KindRBFKernel && !(o.gamma > 0) {
		return nil, fmt.Errorf("metric: rbf-kernel gamma must be positive, got %v: %w", o.gamma, descriptor.ErrInvalidInput)
	}

	cell, err := cellFunc(set, kind, o)
	if err != nil {
		return nil, err
	}
	m := newMatrix(kind, set.Family(), set.IDs())
	identity, hasIdentity := kind.identity()
	n := set.Len()

	fill := func(start, end int) error {
		for i := start; i < end; i++ {
			for j := i; j < n; j++ {
				if i == j && hasIdentity {
					m.sym.SetSym(i, i, identity)
					continue
				}
				v := cell(i, j)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return fmt.Errorf("metric: %s: non-finite value for (%s, %s): %w", kind, set.ID(i), set.ID(j), descriptor.ErrInvalidInput)
				}
				m.sym.SetSym(i, j, v)
			}
		}
		return nil
	}

	if o.parallelism < 2 || n < 2 {
		if err := fill(0, n); err != nil {
			return nil, err
		}
		return m, nil
	}
	if err := executeBlocks(n, o.parallelism, fill); err != nil {
		return nil, err
	}
	return m, nil
}

// executeBlocks splits n rows into at most workers contiguous blocks and runs
// fn for each block in its own goroutine. Blocks write disjoint rows.
func executeBlocks(n, workers int, fn func(start, end int) error) error {
	var g errgroup.Group
	q := n / workers
	r := n % workers
	start := 0
	for i := 0; i < workers; i++ {
		size := q
		if i < r {
			size++
		}
		if size == 0 {
			break
		}
		curStart, curEnd := start, start+size
		g.Go(func() error { return fn(curStart, curEnd) })
		start = curEnd
	}
	return g.Wait()
}

func cellFunc(set *descriptor.Set, kind Kind, o *options) (func(i, j int) float64, error) {
	vec := set.Vector
	switch kind {
	case KindEuclideanDistance:
		return func(i, j int) float64 { return math.Sqrt(sqL2(vec(i), vec(j))) }, nil
	case KindManhattanDistance:
		return func(i, j int) float64 { return l1(vec(i), vec(j)) }, nil
	case KindEuclideanSimilarity:
		return func(i, j int) float64 { return 1 / (1 + math.Sqrt(sqL2(vec(i), vec(j)))) }, nil
	case KindManhattanSimilarity:
		return func(i, j int) float64 { return 1 / (1 + l1(vec(i), vec(j))) }, nil
	case KindCosineSimilarity, KindCosineDistance:
		mags, err := magnitudes(set)
		if err != nil {
			return nil, err
		}
		if kind == KindCosineDistance {
			return func(i, j int) float64 { return 1 - clamp(dot(vec(i), vec(j))/(mags[i]*mags[j])) }, nil
		}
		return func(i, j int) float64 { return clamp(dot(vec(i), vec(j)) / (mags[i] * mags[j])) }, nil
	case KindRBFKernel:
		gamma := o.gamma
		return func(i, j int) float64 { return math.Exp(-gamma * sqL2(vec(i), vec(j))) }, nil
	case KindPolynomialKernel:
		gamma, coef0, degree := o.gamma, o.coef0, float64(o.degree)
		return func(i, j int) float64 { return math.Pow(gamma*dot(vec(i), vec(j))+coef0, degree) }, nil
	case KindSigmoidKernel:
		gamma, coef0 := o.gamma, o.coef0
		return func(i, j int) float64 { return math.Tanh(gamma*dot(vec(i), vec(j)) + coef0) }, nil
	}
	return nil, fmt.Errorf("metric: unknown kind %q: %w", kind, descriptor.ErrInvalidInput)
}

// magnitudes precomputes the norm of every vector in the set.
func magnitudes(set *descriptor.Set) ([]float64, error) {
	mags := make([]float64, set.Len())
	for i := range mags {
		mags[i] = float64(search.Float32s(set.Vector(i)).Magnitude())
		if mags[i] == 0 {
			return nil, fmt.Errorf("metric: cosine on zero-magnitude vector %q: %w", set.ID(i), descriptor.ErrInvalidInput)
		}
	}
	return mags, nil
}

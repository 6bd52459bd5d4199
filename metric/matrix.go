package metric

import (
	"fmt"
	"math"

	"github.com/viant/logosim/descriptor"
	"gonum.org/v1/gonum/mat"
)

// SymmetryTolerance bounds |m[i][j] - m[j][i]| accepted by FromValues.
const SymmetryTolerance = 1e-9

// Matrix is a square, symmetric pairwise matrix over the logos of one family.
// Row and column i belong to ID(i); Index resolves the reverse mapping.
type Matrix struct {
	kind     Kind
	distance bool
	family   descriptor.Family
	ids      []string
	index    map[string]int
	sym      *mat.SymDense // nil when the matrix is empty
}

func newMatrix(kind Kind, family descriptor.Family, ids []string) *Matrix {
	m := &Matrix{
		kind:     kind,
		distance: kind.IsDistance(),
		family:   family,
		ids:      ids,
		index:    make(map[string]int, len(ids)),
	}
	for i, id := range ids {
		m.index[id] = i
	}
	if len(ids) > 0 {
		m.sym = mat.NewSymDense(len(ids), nil)
	}
	return m
}

// FromValues builds a matrix from explicit values, e.g. similarities computed
// elsewhere. values must be len(ids)×len(ids) and symmetric within
// SymmetryTolerance and finite; ids must be unique.
func FromValues(kind Kind, family descriptor.Family, ids []string, values [][]float64) (*Matrix, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("metric: unknown kind %q: %w", kind, descriptor.ErrInvalidInput)
	}
	n := len(ids)
	if len(values) != n {
		return nil, fmt.Errorf("metric: %d rows for %d ids: %w", len(values), n, descriptor.ErrInvalidInput)
	}
	m := newMatrix(kind, family, append([]string(nil), ids...))
	if len(m.index) != n {
		return nil, fmt.Errorf("metric: duplicate ids: %w", descriptor.ErrInvalidInput)
	}
	for i := range values {
		if len(values[i]) != n {
			return nil, fmt.Errorf("metric: row %d has %d columns, want %d: %w", i, len(values[i]), n, descriptor.ErrInvalidInput)
		}
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := values[i][j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("metric: non-finite value at (%d,%d): %w", i, j, descriptor.ErrInvalidInput)
			}
			if math.Abs(v-values[j][i]) > SymmetryTolerance {
				return nil, fmt.Errorf("metric: values not symmetric at (%d,%d): %w", i, j, descriptor.ErrInvalidInput)
			}
			m.sym.SetSym(i, j, v)
		}
	}
	return m, nil
}

// Kind returns the metric that produced the matrix.
func (m *Matrix) Kind() Kind { return m.kind }

// IsDistance reports whether smaller values mean more similar logos. It is
// true for distance kinds and for matrices returned by AsDistance.
func (m *Matrix) IsDistance() bool { return m.distance }

// Family returns the descriptor family of the matrix rows.
func (m *Matrix) Family() descriptor.Family { return m.family }

// Len returns N for an N×N matrix.
func (m *Matrix) Len() int { return len(m.ids) }

// IDs returns a copy of the row ids in row order.
func (m *Matrix) IDs() []string { return append([]string(nil), m.ids...) }

// ID returns the logo id of row i.
func (m *Matrix) ID(i int) string { return m.ids[i] }

// Index returns the row of id.
func (m *Matrix) Index(id string) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.sym.At(i, j) }

// Between returns the value for two logo ids.
func (m *Matrix) Between(a, b string) (float64, error) {
	i, ok := m.index[a]
	if !ok {
		return 0, fmt.Errorf("metric: unknown id %q: %w", a, descriptor.ErrInvalidInput)
	}
	j, ok := m.index[b]
	if !ok {
		return 0, fmt.Errorf("metric: unknown id %q: %w", b, descriptor.ErrInvalidInput)
	}
	return m.sym.At(i, j), nil
}

// Symmetric exposes the underlying gonum matrix, or nil for an empty matrix.
// Callers must not modify it.
func (m *Matrix) Symmetric() mat.Symmetric {
	if m.sym == nil {
		return nil
	}
	return m.sym
}

// AsDistance returns a distance view of the matrix. Distance matrices are
// returned as is; normalized similarities s become 1 - s and keep their Kind.
// Polynomial and sigmoid kernels have no such conversion.
func (m *Matrix) AsDistance() (*Matrix, error) {
	if m.distance {
		return m, nil
	}
	if !m.kind.Normalized() {
		return nil, fmt.Errorf("metric: %s has no distance form: %w", m.kind, descriptor.ErrInvalidInput)
	}
	out := &Matrix{kind: m.kind, distance: true, family: m.family, ids: m.ids, index: m.index}
	n := m.Len()
	if n == 0 {
		return out, nil
	}
	out.sym = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.sym.SetSym(i, j, 1-m.sym.At(i, j))
		}
	}
	return out, nil
}

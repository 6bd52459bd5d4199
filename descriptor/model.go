package descriptor

import (
	"errors"
	"fmt"
)

// ErrInvalidInput reports malformed descriptor input such as mismatched
// vector dimensions within a family or an empty vector sequence.
var ErrInvalidInput = errors.New("invalid input")

// Family names a descriptor algorithm family. Vectors of different families
// are never compared with each other.
type Family string

const (
	// FamilyHu holds the seven Hu invariant moments of the logo's shape.
	FamilyHu Family = "hu"
	// FamilySIFT holds the mean SIFT keypoint descriptor.
	FamilySIFT Family = "sift"
	// FamilyORB holds the mean ORB keypoint descriptor.
	FamilyORB Family = "orb"
)

// Vector is a fixed-length descriptor of one logo for one family.
type Vector []float32

// Logo identifies a logo image and the website it was downloaded from.
// URL is empty when the origin is unknown.
type Logo struct {
	ID  string
	URL string
}

// Entry pairs a logo id with its descriptor vector, as supplied by a Source.
type Entry struct {
	ID     string
	Vector Vector
}

// Set is an ordered, id-keyed collection of the descriptor vectors of a single
// family. Row i of any matrix built from the set belongs to IDs()[i]; the
// mapping is owned by the set so that ids, vectors and rows cannot drift
// apart.
type Set struct {
	family  Family
	dim     int
	ids     []string
	vectors []Vector
	index   map[string]int
}

// NewSet creates an empty set for the given family.
func NewSet(family Family) *Set {
	return &Set{family: family, index: make(map[string]int)}
}

// Add appends a vector for id. The first vector fixes the set's dimension;
// later vectors of a different length are rejected.
func (s *Set) Add(id string, v Vector) error {
	if id == "" {
		return fmt.Errorf("descriptor: %s: empty logo id: %w", s.family, ErrInvalidInput)
	}
	if len(v) == 0 {
		return fmt.Errorf("descriptor: %s: empty vector for %q: %w", s.family, id, ErrInvalidInput)
	}
	if _, ok := s.index[id]; ok {
		return fmt.Errorf("descriptor: %s: duplicate logo id %q: %w", s.family, id, ErrInvalidInput)
	}
	if s.dim == 0 {
		s.dim = len(v)
	} else if len(v) != s.dim {
		return fmt.Errorf("descriptor: %s: dimension mismatch for %q: %d vs %d: %w", s.family, id, len(v), s.dim, ErrInvalidInput)
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.vectors = append(s.vectors, append(Vector(nil), v...))
	return nil
}

// Family returns the family of the set.
func (s *Set) Family() Family { return s.family }

// Len returns the number of vectors.
func (s *Set) Len() int { return len(s.ids) }

// Dim returns the shared vector dimension, or 0 for an empty set.
func (s *Set) Dim() int { return s.dim }

// IDs returns a copy of the ordered logo ids.
func (s *Set) IDs() []string { return append([]string(nil), s.ids...) }

// ID returns the logo id stored at position i.
func (s *Set) ID(i int) string { return s.ids[i] }

// Vector returns the vector stored at position i. Callers must not modify it.
func (s *Set) Vector(i int) Vector { return s.vectors[i] }

// Index returns the position of id.
func (s *Set) Index(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Collect builds a set from source entries in order. When skipInvalid is
// true, entries that cannot be added are returned as skipped instead of
// failing the whole family.
func Collect(family Family, entries []Entry, skipInvalid bool) (*Set, []Entry, error) {
	set := NewSet(family)
	var skipped []Entry
	for _, e := range entries {
		if err := set.Add(e.ID, e.Vector); err != nil {
			if !skipInvalid {
				return nil, nil, err
			}
			skipped = append(skipped, e)
		}
	}
	return set, skipped, nil
}

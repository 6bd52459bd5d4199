package descriptor

import (
	"context"
)

// Source supplies descriptor vectors produced by an external feature
// extractor. Logos whose extraction failed are absent from the result rather
// than present with an empty vector.
type Source interface {
	// Descriptors returns the ordered (id, vector) entries of one family.
	// Implementations must return the same order for the same stored data.
	Descriptors(ctx context.Context, family Family) ([]Entry, error)
}

// URLResolver maps logo ids to the URL of the website they were downloaded
// from. Only successfully downloaded logos have an entry.
type URLResolver interface {
	URLs(ctx context.Context) (map[string]string, error)
}

// StaticSource is an in-memory Source keyed by family.
type StaticSource map[Family][]Entry

// Descriptors returns the entries registered for family.
func (s StaticSource) Descriptors(_ context.Context, family Family) ([]Entry, error) {
	return s[family], nil
}

// StaticURLs is an in-memory URLResolver.
type StaticURLs map[string]string

// URLs returns a copy of the mapping.
func (s StaticURLs) URLs(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}

var (
	_ Source      = StaticSource(nil)
	_ URLResolver = StaticURLs(nil)
)

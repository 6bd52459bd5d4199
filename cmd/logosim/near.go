package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/viant/logosim/descriptor"
	"github.com/viant/logosim/store"
)

func runNear(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("near", stderr, &common)
	family := fs.StringP("family", "f", string(descriptor.FamilyHu), "descriptor family")
	id := fs.String("id", "", "logo id, or a URL to derive it from")
	maxDistance := fs.Float64("max", 0.5, "maximum Euclidean distance; negative disables the bound")
	limit := fs.Int("limit", 10, "maximum number of neighbors; 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("near: --id is required")
	}
	s, closeDB, err := openStore(common.db)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	logoID, neighbors, err := nearest(ctx, s, descriptor.Family(*family), *id, *maxDistance, *limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d logos near %s (%s)\n", len(neighbors), logoID, *family)
	for _, nb := range neighbors {
		location := nb.URL
		if location == "" {
			location = nb.ID + " (url unknown)"
		}
		fmt.Fprintf(stdout, "- %.4f %s\n", nb.Distance, location)
	}
	return nil
}

// nearest looks up the literal id first, as import stores explicit ids
// unchanged. A URL, or a literal id with no descriptor, falls back to the id
// derived from its host name.
func nearest(ctx context.Context, s *store.SQLiteStore, family descriptor.Family, raw string, maxDistance float64, limit int) (string, []store.Neighbor, error) {
	if !strings.Contains(raw, "://") {
		neighbors, err := s.Nearest(ctx, family, raw, maxDistance, limit)
		if err == nil || !errors.Is(err, store.ErrNotFound) {
			return raw, neighbors, err
		}
	}
	derived, err := descriptor.IDFromURL(raw)
	if err != nil {
		return "", nil, fmt.Errorf("near: %w", err)
	}
	neighbors, err := s.Nearest(ctx, family, derived, maxDistance, limit)
	return derived, neighbors, err
}

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/viant/logosim/config"
	"github.com/viant/logosim/descriptor"
	"go.uber.org/zap"
)

// record is one line of the import file.
type record struct {
	ID     string            `json:"id"`
	URL    string            `json:"url"`
	Family string            `json:"family"`
	Vector descriptor.Vector `json:"vector"`
}

func runImport(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	fs := newFlagSet("import", stderr, &common)
	in := fs.String("in", "", "JSON lines file of {id, url, family, vector} records; - reads stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("import: --in is required")
	}
	logger, err := newLogger(config.Default().Log, common.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var r io.Reader = os.Stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		defer f.Close()
		r = f
	}
	logos, byFamily, err := readRecords(r)
	if err != nil {
		return err
	}

	s, closeDB, err := openStore(common.db)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	if err := s.PutLogos(ctx, logos); err != nil {
		return fmt.Errorf("import: logos: %w", err)
	}
	families := make([]string, 0, len(byFamily))
	for family := range byFamily {
		families = append(families, family)
	}
	sort.Strings(families)
	total := 0
	for _, family := range families {
		entries := byFamily[family]
		if err := s.PutDescriptors(ctx, descriptor.Family(family), entries); err != nil {
			return fmt.Errorf("import: %s: %w", family, err)
		}
		logger.Debug("imported family", zap.String("family", family), zap.Int("descriptors", len(entries)))
		total += len(entries)
	}
	fmt.Fprintf(stdout, "imported %d descriptors for %d logos in %d families\n", total, len(logos), len(families))
	return nil
}

// readRecords decodes the import stream. Lines without an id take the id
// derived from their URL.
func readRecords(r io.Reader) ([]descriptor.Logo, map[string][]descriptor.Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var logos []descriptor.Logo
	seen := make(map[string]int)
	byFamily := make(map[string][]descriptor.Entry)
	for line := 1; scanner.Scan(); line++ {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, nil, fmt.Errorf("import: line %d: %w", line, err)
		}
		if rec.ID == "" {
			id, err := descriptor.IDFromURL(rec.URL)
			if err != nil {
				return nil, nil, fmt.Errorf("import: line %d: %w", line, err)
			}
			rec.ID = id
		}
		if i, ok := seen[rec.ID]; !ok {
			seen[rec.ID] = len(logos)
			logos = append(logos, descriptor.Logo{ID: rec.ID, URL: rec.URL})
		} else if logos[i].URL == "" {
			logos[i].URL = rec.URL
		}
		if rec.Family == "" {
			continue
		}
		byFamily[rec.Family] = append(byFamily[rec.Family], descriptor.Entry{ID: rec.ID, Vector: rec.Vector})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("import: %w", err)
	}
	return logos, byFamily, nil
}

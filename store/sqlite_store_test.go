package store

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"

	"github.com/viant/logosim/descriptor"
	"github.com/viant/logosim/engine"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := engine.Open(":memory:")
	if err != nil {
		t.Fatalf("engine.Open(:memory:) failed: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	return s
}

func TestNewSQLiteStore_NilDB(t *testing.T) {
	if _, err := NewSQLiteStore((*sql.DB)(nil)); err == nil {
		t.Fatalf("NewSQLiteStore(nil): expected error")
	}
}

// TestSQLiteStore_PutAndRead stores logos in two families and reads them
// back through the Source and URLResolver methods.
func TestSQLiteStore_PutAndRead(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	logos := []descriptor.Logo{
		{ID: "acme.com", URL: "https://acme.com"},
		{ID: "globex.com"},
	}
	if err := s.PutLogos(ctx, logos); err != nil {
		t.Fatalf("PutLogos failed: %v", err)
	}
	hu := []descriptor.Entry{
		{ID: "globex.com", Vector: descriptor.Vector{0.5, 0.25}},
		{ID: "acme.com", Vector: descriptor.Vector{1, 2}},
	}
	if err := s.PutDescriptors(ctx, descriptor.FamilyHu, hu); err != nil {
		t.Fatalf("PutDescriptors(hu) failed: %v", err)
	}
	if err := s.PutDescriptors(ctx, descriptor.FamilyORB, hu[:1]); err != nil {
		t.Fatalf("PutDescriptors(orb) failed: %v", err)
	}

	got, err := s.Descriptors(ctx, descriptor.FamilyHu)
	if err != nil {
		t.Fatalf("Descriptors failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "acme.com" || got[1].ID != "globex.com" {
		t.Fatalf("Descriptors = %+v, want acme.com then globex.com", got)
	}
	if got[1].Vector[0] != 0.5 || got[1].Vector[1] != 0.25 {
		t.Fatalf("Descriptors vector = %v, want [0.5 0.25]", got[1].Vector)
	}

	urls, err := s.URLs(ctx)
	if err != nil {
		t.Fatalf("URLs failed: %v", err)
	}
	if len(urls) != 1 || urls["acme.com"] != "https://acme.com" {
		t.Fatalf("URLs = %v, want only acme.com", urls)
	}

	families, err := s.Families(ctx)
	if err != nil {
		t.Fatalf("Families failed: %v", err)
	}
	if len(families) != 2 || families[0] != descriptor.FamilyHu || families[1] != descriptor.FamilyORB {
		t.Fatalf("Families = %v, want [hu orb]", families)
	}

	// A later logo without URL does not clear a known one.
	if err := s.PutLogos(ctx, []descriptor.Logo{{ID: "acme.com"}}); err != nil {
		t.Fatalf("PutLogos update failed: %v", err)
	}
	if urls, _ = s.URLs(ctx); urls["acme.com"] != "https://acme.com" {
		t.Fatalf("URLs after update = %v", urls)
	}
}

func TestSQLiteStore_InvalidInput(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if err := s.PutLogos(ctx, []descriptor.Logo{{URL: "https://x.com"}}); !errors.Is(err, descriptor.ErrInvalidInput) {
		t.Fatalf("PutLogos without id = %v, want ErrInvalidInput", err)
	}
	if err := s.PutDescriptors(ctx, descriptor.FamilyHu, []descriptor.Entry{{ID: "x.com"}}); !errors.Is(err, descriptor.ErrInvalidInput) {
		t.Fatalf("PutDescriptors without vector = %v, want ErrInvalidInput", err)
	}
	if err := s.PutDescriptors(ctx, "", []descriptor.Entry{{ID: "x.com", Vector: descriptor.Vector{1}}}); !errors.Is(err, descriptor.ErrInvalidInput) {
		t.Fatalf("PutDescriptors without family = %v, want ErrInvalidInput", err)
	}
	got, err := s.Descriptors(ctx, descriptor.FamilyHu)
	if err != nil {
		t.Fatalf("Descriptors failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Descriptors after rejected writes = %v, want none", got)
	}
}

func TestSQLiteStore_Nearest(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	entries := []descriptor.Entry{
		{ID: "a", Vector: descriptor.Vector{0, 0}},
		{ID: "b", Vector: descriptor.Vector{3, 4}},
		{ID: "c", Vector: descriptor.Vector{0, 1}},
		{ID: "d", Vector: descriptor.Vector{1, 0}},
		{ID: "e", Vector: descriptor.Vector{10, 10}},
	}
	if err := s.PutDescriptors(ctx, descriptor.FamilySIFT, entries); err != nil {
		t.Fatalf("PutDescriptors failed: %v", err)
	}
	if err := s.PutLogos(ctx, []descriptor.Logo{{ID: "d", URL: "https://d.example"}}); err != nil {
		t.Fatalf("PutLogos failed: %v", err)
	}

	got, err := s.Nearest(ctx, descriptor.FamilySIFT, "a", 5, 0)
	if err != nil {
		t.Fatalf("Nearest failed: %v", err)
	}
	want := []string{"c", "d", "b"}
	if len(got) != len(want) {
		t.Fatalf("Nearest returned %d neighbors, want %d: %+v", len(got), len(want), got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("Nearest[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
	if got[1].URL != "https://d.example" {
		t.Errorf("Nearest[1].URL = %q, want https://d.example", got[1].URL)
	}
	if math.Abs(got[2].Distance-5) > 1e-9 {
		t.Errorf("Nearest[2].Distance = %v, want 5", got[2].Distance)
	}

	got, err = s.Nearest(ctx, descriptor.FamilySIFT, "a", -1, 1)
	if err != nil {
		t.Fatalf("Nearest with limit failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("Nearest limit 1 = %+v, want [c]", got)
	}

	if _, err := s.Nearest(ctx, descriptor.FamilyHu, "a", 1, 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Nearest in empty family = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_Remove(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if err := s.PutLogos(ctx, []descriptor.Logo{{ID: "a", URL: "https://a.example"}}); err != nil {
		t.Fatalf("PutLogos failed: %v", err)
	}
	if err := s.PutDescriptors(ctx, descriptor.FamilyHu, []descriptor.Entry{{ID: "a", Vector: descriptor.Vector{1}}}); err != nil {
		t.Fatalf("PutDescriptors failed: %v", err)
	}
	if err := s.Remove(ctx, "a"); err != nil {
		t.Fatalf("Remove(a) failed: %v", err)
	}
	got, err := s.Descriptors(ctx, descriptor.FamilyHu)
	if err != nil {
		t.Fatalf("Descriptors failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected a to be removed, got %v", got)
	}
	if urls, _ := s.URLs(ctx); len(urls) != 0 {
		t.Fatalf("expected no urls after remove, got %v", urls)
	}
	if err := s.Remove(ctx, ""); err == nil {
		t.Fatalf("Remove(\"\"): expected error")
	}
}

package engine

import (
	"path/filepath"
	"testing"

	"github.com/viant/logosim/descriptor"
)

// TestOpen_RegistersDescriptorFunctions verifies that a database opened with
// Open can call desc_l2 on every pooled connection, including
// ones opened after the first.
func TestOpen_RegistersDescriptorFunctions(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "logos.sqlite"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(2)

	if _, err := db.Exec(`CREATE TABLE descriptors(id TEXT PRIMARY KEY, vector BLOB)`); err != nil {
		t.Fatalf("CREATE TABLE failed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO descriptors(id, vector) VALUES(?, ?), (?, ?)`,
		"acme.com", descriptor.EncodeVector(descriptor.Vector{0, 0}),
		"globex.com", descriptor.EncodeVector(descriptor.Vector{6, 8})); err != nil {
		t.Fatalf("INSERT failed: %v", err)
	}

	// Hold one connection so the query below needs a second one.
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	var dist float64
	if err := db.QueryRow(`SELECT desc_l2(a.vector, b.vector) FROM descriptors a, descriptors b WHERE a.id = 'acme.com' AND b.id = 'globex.com'`).Scan(&dist); err != nil {
		t.Fatalf("desc_l2 query failed: %v", err)
	}
	if dist != 10 {
		t.Fatalf("desc_l2 = %v, want 10", dist)
	}
}

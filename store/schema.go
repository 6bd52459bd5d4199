package store

import (
	"database/sql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS logos (
    id TEXT PRIMARY KEY,
    url TEXT
)`,
	`CREATE TABLE IF NOT EXISTS descriptors (
    family TEXT NOT NULL,
    id TEXT NOT NULL,
    vector BLOB NOT NULL,
    PRIMARY KEY (family, id)
)`,
}

// EnsureSchema creates the logos and descriptors tables if they do not
// already exist.
func EnsureSchema(db *sql.DB) error {
	for _, ddl := range schema {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

package engine

import (
	"database/sql"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// Open opens a SQLite database using the modernc.org/sqlite driver.
//
// For file-based databases, pass a path like "./logos.sqlite". For in-memory
// databases, pass ":memory:". In-memory databases are per connection, so
// callers sharing one should limit the pool with db.SetMaxOpenConns(1).
func Open(dsn string) (*sql.DB, error) {
	RegisterFunctions()
	return sql.Open("sqlite", dsn)
}

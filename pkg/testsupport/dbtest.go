package testsupport

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteMemoryDB opens a private in-memory SQLite database. Name isolates
// databases between tests in the same process; an empty name yields the
// process-wide shared database.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	if name == "" {
		return sql.Open("sqlite3", "file::memory:?cache=shared")
	}
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
}

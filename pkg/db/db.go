package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var migrationsSQL string

// InitDB runs migrations on the given DB connection using the embedded SQL.
// Every statement is guarded with IF NOT EXISTS so InitDB can run on each open.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// dsn builds a go-sqlite3 connection string for path.
func dsn(path string, foreignKeys bool) string {
	fk := "off"
	if foreignKeys {
		fk = "on"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_foreign_keys=%s", path, sep, fk)
}

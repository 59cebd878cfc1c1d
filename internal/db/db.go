package db

import (
	"embed"
	"fmt"
	stdfs "io/fs"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver every connection uses.
const DriverName = "sqlite3"

//go:embed schema/*.sql
var schemaFS embed.FS

// Open opens (or creates) a local SQLite database file and applies the embedded schema.
// The schema scripts under internal/db/schema are idempotent and run in file-name order
// on every open; there is no version table.
//
// Connection pragmas are passed through the DSN so that every pooled connection gets them,
// not just the first one.
func Open(path string) (*sqlx.DB, error) {
	if path == "" {
		path = "app.db"
	}
	d, err := sqlx.Open(DriverName, dsn(path))
	if err != nil {
		return nil, err
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	if err := applySchema(d); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// dsn turns a plain path or a file: URI into a go-sqlite3 DSN with our pragmas.
func dsn(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	params := []string{"_foreign_keys=on", "_busy_timeout=5000"}
	// journal_mode is meaningless for in-memory databases.
	if !strings.Contains(path, "mode=memory") {
		params = append(params, "_journal_mode=WAL")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

func applySchema(d *sqlx.DB) error {
	list, err := stdfs.ReadDir(schemaFS, "schema")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(list))
	for _, de := range list {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".sql") {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)

	tx, err := d.Beginx()
	if err != nil {
		return err
	}
	for _, name := range names {
		text, err := schemaFS.ReadFile("schema/" + name)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := tx.Exec(string(text)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("schema %s failed: %w", name, err)
		}
	}
	return tx.Commit()
}

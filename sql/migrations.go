package sql

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var embedded embed.FS

// migrate applies the embedded migrations newer than the schema version of db in
// one transaction and returns the resulting version. Migration files are named
// <version>_<name>.sql and hold statements separated by ';'.
func migrate(db *Database) (int, error) {
	entries, err := fs.ReadDir(embedded, "migrations")
	if err != nil {
		return 0, fmt.Errorf("read migrations: %w", err)
	}
	var version int
	err = db.WithTxImmediate(context.Background(), func(tx *Tx) error {
		current, err := Version(tx)
		if err != nil {
			return err
		}
		version = current
		// ReadDir returns entries sorted by name, versions are zero padded
		for _, entry := range entries {
			prefix, _, _ := strings.Cut(entry.Name(), "_")
			order, err := strconv.Atoi(prefix)
			if err != nil {
				return fmt.Errorf("invalid migration %s: %w", entry.Name(), err)
			}
			if order <= version {
				continue
			}
			content, err := fs.ReadFile(embedded, path.Join("migrations", entry.Name()))
			if err != nil {
				return fmt.Errorf("read migration %s: %w", entry.Name(), err)
			}
			for _, stmt := range strings.Split(string(content), ";") {
				if strings.TrimSpace(stmt) == "" {
					continue
				}
				if _, err := tx.Exec(stmt+";", nil, nil); err != nil {
					return fmt.Errorf("migration %s: %w", entry.Name(), err)
				}
			}
			// pragma values can't be bound
			if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d;", order), nil, nil); err != nil {
				return fmt.Errorf("set schema version %d: %w", order, err)
			}
			version = order
		}
		return nil
	})
	return version, err
}

// Version returns the schema version recorded in the database.
func Version(db Executor) (int, error) {
	var version int
	if _, err := db.Exec("PRAGMA user_version;", nil, func(stmt *Statement) bool {
		version = stmt.ColumnInt(0)
		return true
	}); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

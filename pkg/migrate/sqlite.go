package migrate

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed sqlite/schema.sql
var sqliteSchema string

// ApplySQLite creates the schema on an embedded sqlite database and loads the
// seed migrations. Used for local runs and repository tests.
func ApplySQLite(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("apply sqlite schema: %w", err)
	}

	seeds, err := seedFiles()
	if err != nil {
		return err
	}
	for _, name := range seeds {
		raw, err := fs.ReadFile(FS, embeddedDir+"/"+name)
		if err != nil {
			return fmt.Errorf("read seed %q: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, UpSection(string(raw))); err != nil {
			return fmt.Errorf("apply seed %q: %w", name, err)
		}
	}
	return nil
}

func seedFiles() ([]string, error) {
	migrations, err := Catalog(FS, embeddedDir)
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}
	var names []string
	for _, m := range migrations {
		if m.Seed {
			names = append(names, m.File)
		}
	}
	return names, nil
}

// UpSection returns the statements of a goose SQL file's Up block with goose
// annotations removed.
func UpSection(content string) string {
	start := strings.Index(content, "-- +goose Up")
	if start < 0 {
		return ""
	}
	body := content[start+len("-- +goose Up"):]
	if end := strings.Index(body, "-- +goose Down"); end >= 0 {
		body = body[:end]
	}

	lines := strings.Split(body, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "-- +goose") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var (
	fileNameRe    = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)
	unsafeNameRe  = regexp.MustCompile(`[^a-z0-9_]+`)
	createTableRe = regexp.MustCompile(`(?i)CREATE TABLE(?: IF NOT EXISTS)?\s+([a-z_][a-z0-9_]*)`)
)

// Migration is one goose SQL file. Seed migrations only load reference data
// (roles, drills, avatar items) and are replayed onto sqlite.
type Migration struct {
	Version int64
	Name    string
	File    string
	Seed    bool
}

// Catalog lists the migrations under dir in version order and rejects
// malformed names, duplicate versions and files without both goose sections.
func Catalog(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	var out []Migration
	seen := map[int64]string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		m, err := parseFileName(e.Name())
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[m.Version]; ok {
			return nil, fmt.Errorf("duplicate migration version %d in %q and %q", m.Version, prev, m.File)
		}
		seen[m.Version] = m.File

		raw, err := fs.ReadFile(fsys, path.Join(dir, m.File))
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", m.File, err)
		}
		for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
			if !strings.Contains(string(raw), marker) {
				return nil, fmt.Errorf("migration %q missing %q", m.File, marker)
			}
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func parseFileName(name string) (Migration, error) {
	m := fileNameRe.FindStringSubmatch(name)
	if m == nil {
		return Migration{}, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
	}
	if _, err := time.Parse(versionLayout, m[1]); err != nil {
		return Migration{}, fmt.Errorf("migration %q has a version that is not a timestamp", name)
	}
	version, _ := strconv.ParseInt(m[1], 10, 64)
	return Migration{
		Version: version,
		Name:    m[2],
		File:    name,
		Seed:    strings.HasPrefix(m[2], "seed_"),
	}, nil
}

// ValidateDir checks the migrations on disk and that every table they create
// also exists in the flattened sqlite schema.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	fsys := os.DirFS(dir)
	migrations, err := Catalog(fsys, ".")
	if err != nil {
		return err
	}
	return checkSQLiteParity(fsys, ".", migrations, sqliteSchema)
}

func checkSQLiteParity(fsys fs.FS, dir string, migrations []Migration, schema string) error {
	mirrored := map[string]bool{}
	for _, table := range createdTables(schema) {
		mirrored[table] = true
	}

	var missing []string
	for _, m := range migrations {
		if m.Seed {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, m.File))
		if err != nil {
			return fmt.Errorf("read file %q: %w", m.File, err)
		}
		for _, table := range createdTables(UpSection(string(raw))) {
			if !mirrored[table] {
				missing = append(missing, m.File+": "+table)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("tables missing from sqlite schema: %s", strings.Join(missing, ", "))
	}
	return nil
}

func createdTables(sql string) []string {
	var tables []string
	for _, m := range createTableRe.FindAllStringSubmatch(sql, -1) {
		tables = append(tables, strings.ToLower(m[1]))
	}
	return tables
}

// CreateSQLMigration writes an empty goose migration named
// <dir>/<YYYYMMDDHHMMSS>_<name>.sql. Names starting with seed_ get the seed
// template. The version always sorts after the newest existing file.
func CreateSQLMigration(dir string, name string) (string, error) {
	return createSQLMigration(dir, name, time.Now().UTC())
}

func createSQLMigration(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	safe = strings.Trim(unsafeNameRe.ReplaceAllString(safe, "_"), "_")
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}
	existing, err := Catalog(os.DirFS(dir), ".")
	if err != nil {
		return "", err
	}

	version, _ := strconv.ParseInt(now.Format(versionLayout), 10, 64)
	if n := len(existing); n > 0 && existing[n-1].Version >= version {
		next, err := time.Parse(versionLayout, strconv.FormatInt(existing[n-1].Version, 10))
		if err != nil {
			return "", err
		}
		version, _ = strconv.ParseInt(next.Add(time.Second).Format(versionLayout), 10, 64)
	}

	file := filepath.Join(dir, fmt.Sprintf("%d_%s.sql", version, safe))
	if err := os.WriteFile(file, []byte(migrationTemplate(safe)), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", file, err)
	}
	return file, nil
}

func migrationTemplate(name string) string {
	if strings.HasPrefix(name, "seed_") {
		return fmt.Sprintf(`-- +goose Up
-- +goose StatementBegin
-- %s: INSERT ... ON CONFLICT DO NOTHING so sqlite can replay it
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- remove the rows inserted by %s
-- +goose StatementEnd
`, name, name)
	}
	return fmt.Sprintf(`-- +goose Up
-- +goose StatementBegin
-- %s
-- mirror new tables in pkg/migrate/sqlite/schema.sql
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %s
-- +goose StatementEnd
`, name, name)
}

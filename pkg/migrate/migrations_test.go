package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/juniorgolf-backend/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestPracticeMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_practice_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS children",
		"FOREIGN KEY (parent_id) REFERENCES parents(id) ON DELETE CASCADE",
		"CHECK (available_stars >= 0)",
		"CHECK (total_stars >= 0)",
		"UNIQUE (session_id, sort_order)",
		"child_id UUID NOT NULL UNIQUE",
		"DROP TABLE IF EXISTS session_drills",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAvatarMigrationEnforcesSingleOwnership(t *testing.T) {
	content := readMigration(t, "*_create_avatar_tables.sql")
	for _, sub := range []string{"UNIQUE (child_id, item_id)", "DROP TABLE IF EXISTS child_avatar_items"} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestRoleSeedGrantsParentPermissions(t *testing.T) {
	content := readMigration(t, "*_seed_roles_permissions.sql")
	for _, perm := range []string{"admin:all", "children:read", "children:write", "children:delete", "drills:read", "sessions:read", "sessions:write", "settings:read", "settings:write"} {
		if !strings.Contains(content, "'"+perm+"'") {
			t.Errorf("seed missing permission %q", perm)
		}
	}
}

func TestUpSectionStripsAnnotations(t *testing.T) {
	content := "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose StatementEnd\n\n-- +goose Down\nSELECT 2;\n"
	got := migrate.UpSection(content)
	if got != "SELECT 1;" {
		t.Fatalf("unexpected up section %q", got)
	}
	if migrate.UpSection("SELECT 3;") != "" {
		t.Fatalf("expected empty section without goose header")
	}
}

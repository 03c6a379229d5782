package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"go.uber.org/multierr"

	"github.com/angelmondragon/wayfarer-backend/pkg/migrate"
)

func TestCatalogMigrationContainsSchemas(t *testing.T) {
	tests := []struct {
		glob   string
		checks []string
	}{
		{
			glob: "*_create_catalog_tables.sql",
			checks: []string{
				"CREATE TABLE IF NOT EXISTS destinations",
				"CREATE TABLE IF NOT EXISTS packages",
				"excluded_months smallint[] NOT NULL DEFAULT '{}'",
				"CREATE UNIQUE INDEX IF NOT EXISTS idx_packages_slug",
				"DROP TABLE IF EXISTS packages",
			},
		},
		{
			glob: "*_create_package_group_discounts.sql",
			checks: []string{
				"CREATE TABLE IF NOT EXISTS package_group_discounts",
				"REFERENCES packages(id) ON DELETE CASCADE",
				"package_group_discounts_owner_check",
				"DROP TABLE IF EXISTS package_group_discounts",
			},
		},
	}

	for _, tt := range tests {
		matches, err := filepath.Glob(filepath.Join("migrations", tt.glob))
		if err != nil {
			t.Fatalf("glob migrations: %v", err)
		}
		if len(matches) != 1 {
			t.Fatalf("expected one migration for %s, got %d", tt.glob, len(matches))
		}
		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read migration file: %v", err)
		}
		content := string(data)
		for _, sub := range tt.checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s: missing expected statement %q", matches[0], sub)
			}
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations should validate: %v", err)
	}
}

func TestCreateSQLMigrationThenValidate(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Package Tags!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_package_tags.sql") {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("validate created migration: %v", err)
	}

	bad := filepath.Join(dir, "not_a_migration.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write bad file: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename to be rejected")
	}
}

func TestValidateEmbeddedSet(t *testing.T) {
	src := migrate.Embedded()
	sub, err := fs.Sub(src.FS, src.Dir)
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	if err := migrate.Validate(sub); err != nil {
		t.Fatalf("embedded migrations should validate: %v", err)
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	fsys := fstest.MapFS{
		"20260105090000_a.sql":       {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"20260105090000_b.sql":       {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"20260105091000_no_down.sql": {Data: []byte("-- +goose Up\n")},
		"99999999999999_bad.sql":     {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"notes.sql":                  {Data: []byte("")},
		"README.md":                  {Data: []byte("ignored")},
	}

	err := migrate.Validate(fsys)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if got := len(multierr.Errors(err)); got != 4 {
		t.Fatalf("expected 4 problems, got %d: %v", got, err)
	}
}

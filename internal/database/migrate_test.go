// Package database provides connection setup for MariaDB and Redis.
// This file validates migration SQL files to catch schema mismatches early.
package database

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// migrationsDir returns the absolute path to db/migrations/ from the project root.
func migrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	// thisFile is internal/database/migrate_test.go, project root is two dirs up.
	projectRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")
	dir := filepath.Join(projectRoot, "db", "migrations")
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("migrations directory not found at %s: %v", dir, err)
	}
	return dir
}

// TestMigrations_UpDownPairs ensures every .up.sql has a matching .down.sql.
func TestMigrations_UpDownPairs(t *testing.T) {
	dir := migrationsDir(t)
	upFiles, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing up files: %v", err)
	}
	if len(upFiles) == 0 {
		t.Fatal("no migration files found")
	}

	for _, up := range upFiles {
		down := strings.Replace(up, ".up.sql", ".down.sql", 1)
		if _, err := os.Stat(down); err != nil {
			t.Errorf("missing down migration for %s", filepath.Base(up))
		}
	}
}

// TestMigrations_SequentialVersions ensures migration version numbers are
// contiguous starting at 1. golang-migrate tolerates gaps, but a gap almost
// always means a migration was renamed or lost in a merge.
func TestMigrations_SequentialVersions(t *testing.T) {
	dir := migrationsDir(t)
	upFiles, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing up files: %v", err)
	}

	versionPattern := regexp.MustCompile(`^(\d+)_`)
	seen := map[int]string{}
	max := 0
	for _, f := range upFiles {
		base := filepath.Base(f)
		m := versionPattern.FindStringSubmatch(base)
		if m == nil {
			t.Errorf("%s: filename does not start with a numeric version", base)
			continue
		}
		v, _ := strconv.Atoi(m[1])
		if prev, dup := seen[v]; dup {
			t.Errorf("duplicate migration version %d: %s and %s", v, prev, base)
		}
		seen[v] = base
		if v > max {
			max = v
		}
	}

	for v := 1; v <= max; v++ {
		if _, ok := seen[v]; !ok {
			t.Errorf("missing migration version %d", v)
		}
	}
}

// TestMigrations_DownDropsCreatedTables verifies that every table created in
// an up migration is dropped by its paired down migration, so a full
// down-migration leaves an empty schema.
func TestMigrations_DownDropsCreatedTables(t *testing.T) {
	dir := migrationsDir(t)
	upFiles, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing up files: %v", err)
	}

	createPattern := regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(\w+)`)
	for _, up := range upFiles {
		upData, err := os.ReadFile(up)
		if err != nil {
			t.Fatalf("reading %s: %v", up, err)
		}

		matches := createPattern.FindAllStringSubmatch(string(upData), -1)
		if len(matches) == 0 {
			continue
		}

		down := strings.Replace(up, ".up.sql", ".down.sql", 1)
		downData, err := os.ReadFile(down)
		if err != nil {
			t.Fatalf("reading %s: %v", down, err)
		}

		for _, m := range matches {
			table := m[1]
			if !strings.Contains(string(downData), "DROP TABLE IF EXISTS "+table) {
				t.Errorf("%s creates table %q but %s does not drop it",
					filepath.Base(up), table, filepath.Base(down))
			}
		}
	}
}

// TestMigrations_ForeignKeysReferenceEarlierTables ensures that foreign keys
// only reference tables created in the same or an earlier migration, so the
// migrations apply cleanly in order on a fresh database.
func TestMigrations_ForeignKeysReferenceEarlierTables(t *testing.T) {
	dir := migrationsDir(t)
	upFiles, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing up files: %v", err)
	}
	// Glob returns sorted paths, which matches apply order for
	// zero-padded version prefixes.

	createPattern := regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(\w+)`)
	refPattern := regexp.MustCompile(`(?i)REFERENCES\s+(\w+)`)

	created := map[string]bool{}
	for _, up := range upFiles {
		data, err := os.ReadFile(up)
		if err != nil {
			t.Fatalf("reading %s: %v", up, err)
		}
		content := string(data)

		for _, m := range createPattern.FindAllStringSubmatch(content, -1) {
			created[strings.ToLower(m[1])] = true
		}
		for _, m := range refPattern.FindAllStringSubmatch(content, -1) {
			ref := strings.ToLower(m[1])
			if !created[ref] {
				t.Errorf("%s references table %q before it is created",
					filepath.Base(up), m[1])
			}
		}
	}
}

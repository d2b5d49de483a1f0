package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migration is one numbered schema step, paired from
// NNNN_name.up.sql / NNNN_name.down.sql files.
type migration struct {
	version int
	name    string
	up      string
	down    string
}

// MigrateUp applies every migration newer than the schema version
// recorded in the database. Calling it on an up-to-date database is a
// no-op, so startup can always run it.
func MigrateUp(db *sql.DB) error {
	steps, err := loadMigrations()
	if err != nil {
		return err
	}
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	for _, step := range steps {
		if step.version <= current {
			continue
		}
		if _, err := db.Exec(step.up); err != nil {
			return fmt.Errorf("apply migration %s: %w", step.name, err)
		}
		if err := setSchemaVersion(db, step.version); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown rolls back the most recently applied migration.
func MigrateDown(db *sql.DB) error {
	steps, err := loadMigrations()
	if err != nil {
		return err
	}
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		if step.version > current {
			continue
		}
		if step.down == "" {
			return fmt.Errorf("migration %s has no down script", step.name)
		}
		if _, err := db.Exec(step.down); err != nil {
			return fmt.Errorf("revert migration %s: %w", step.name, err)
		}
		return setSchemaVersion(db, step.version-1)
	}
	return nil
}

func loadMigrations() ([]migration, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	byVersion := make(map[int]*migration)
	for _, entry := range entries {
		file := entry.Name()
		base, kind, ok := splitMigrationName(file)
		if !ok {
			return nil, fmt.Errorf("unrecognized migration file %s", file)
		}
		version, err := strconv.Atoi(strings.SplitN(base, "_", 2)[0])
		if err != nil {
			return nil, fmt.Errorf("migration %s has no numeric prefix", file)
		}
		body, err := migrationFS.ReadFile("migrations/" + file)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", file, err)
		}
		step := byVersion[version]
		if step == nil {
			step = &migration{version: version, name: base}
			byVersion[version] = step
		}
		if kind == "up" {
			step.up = string(body)
		} else {
			step.down = string(body)
		}
	}

	steps := make([]migration, 0, len(byVersion))
	for _, step := range byVersion {
		if step.up == "" {
			return nil, fmt.Errorf("migration %s has no up script", step.name)
		}
		steps = append(steps, *step)
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].version < steps[j].version })
	return steps, nil
}

func splitMigrationName(file string) (base, kind string, ok bool) {
	switch {
	case strings.HasSuffix(file, ".up.sql"):
		return strings.TrimSuffix(file, ".up.sql"), "up", true
	case strings.HasSuffix(file, ".down.sql"):
		return strings.TrimSuffix(file, ".down.sql"), "down", true
	}
	return "", "", false
}

// The schema version rides in sqlite's user_version pragma, which
// starts at 0 for a fresh database.
func schemaVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

func setSchemaVersion(db *sql.DB, v int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return nil
}

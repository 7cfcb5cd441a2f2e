package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	pg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const migrationsTable = "schema_migrations_golf"

// RunMigrations applies the files in dir (e.g. "migrations") to the database.
// A database that already has golf_games but no migrate metadata is
// baselined to the newest file instead of being migrated from scratch.
func RunMigrations(databaseURL, dir string) error {
	if databaseURL == "" {
		return errors.New("database URL is empty")
	}

	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	driver, err := pg.WithInstance(sqlDB, &pg.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if needsBaseline(sqlDB) {
		if latest := findLatestMigrationVersion(dir); latest > 0 {
			log.Warn().Str("component", "migrate").Int64("version", latest).Msg("baselining existing schema")
			if err := m.Force(int(latest)); err != nil {
				return fmt.Errorf("force version %d: %w", latest, err)
			}
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info().Str("component", "migrate").Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
	return nil
}

func needsBaseline(db *sql.DB) bool {
	var gamesExist, metaExist bool
	if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'golf_games')`).Scan(&gamesExist); err != nil {
		return false
	}
	if !gamesExist {
		return false
	}
	if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, migrationsTable).Scan(&metaExist); err != nil {
		return false
	}
	return !metaExist
}

var versionPrefix = regexp.MustCompile(`^0*([0-9]+)_.*\.up\.sql$`)

// findLatestMigrationVersion returns the highest numeric prefix among the
// up migrations in dir.
func findLatestMigrationVersion(dir string) int64 {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	var max int64
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		m := versionPrefix.FindStringSubmatch(f.Name())
		if len(m) < 2 {
			continue
		}
		v, _ := strconv.ParseInt(m[1], 10, 64)
		if v > max {
			max = v
		}
	}
	return max
}

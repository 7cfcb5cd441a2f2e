package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLatestMigrationVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000001_create_golf_games.up.sql",
		"000001_create_golf_games.down.sql",
		"000003_add_index.up.sql",
		"000007_later.down.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000009_dir.up.sql"), 0o755))

	assert.Equal(t, int64(3), findLatestMigrationVersion(dir))
	assert.Zero(t, findLatestMigrationVersion(filepath.Join(dir, "missing")))
}

func TestShippedMigrationsAreVersioned(t *testing.T) {
	assert.Equal(t, int64(1), findLatestMigrationVersion("../../migrations"))
}

func TestRunMigrationsRequiresURL(t *testing.T) {
	assert.Error(t, RunMigrations("", "migrations"))
}

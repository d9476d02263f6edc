package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectedSchemaVersion is the version of the newest embedded migration.
// Update this when adding new migrations
const expectedSchemaVersion = 2

// TestMigrations_FreshDatabase tests running migrations on a fresh database
func TestMigrations_FreshDatabase(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	// Create storage (this runs migrations)
	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(expectedSchemaVersion), version)

	for _, table := range []string{"submissions", "preferences"} {
		var count int
		err := store.db.QueryRow(`
			SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?
		`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

// TestMigrations_Idempotency tests that migrations can be run multiple times
func TestMigrations_Idempotency(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store1, err := NewStorage(tmpDB)
	require.NoError(t, err)
	require.NoError(t, store1.SetPreference(PreferenceUserEmail, "kept@example.com"))
	store1.Close()

	// Reopen; no migration should re-run or drop data
	store2, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store2.Close()

	value, err := store2.GetPreference(PreferenceUserEmail)
	require.NoError(t, err)
	assert.Equal(t, "kept@example.com", value)

	version, err := store2.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(expectedSchemaVersion), version)
}

func createTempDB(t *testing.T) string {
	tmpFile, err := os.CreateTemp("", "test_*.db")
	require.NoError(t, err)
	tmpFile.Close()
	return tmpFile.Name()
}

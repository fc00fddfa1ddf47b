package migrations

import (
	"testing"

	"betlearning/database"
	"betlearning/migration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateAllCreatesLearningTables(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	require.NoError(t, migration.MigrateAll(db))

	for _, table := range []string{"predictions", "learning_insights", "performance_metrics", "schema_migrations"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("predictions", "idx_fixture_type"))
	assert.True(t, db.Migrator().HasIndex("predictions", "idx_created_verified"))

	var count int64
	require.NoError(t, db.Model(&migration.SchemaMigration{}).Count(&count).Error)
	assert.Equal(t, int64(len(migration.Registered())), count)
}

func TestMigrateAllIsIdempotent(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	require.NoError(t, migration.MigrateAll(db))
	require.NoError(t, migration.MigrateAll(db))

	var count int64
	require.NoError(t, db.Model(&migration.SchemaMigration{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

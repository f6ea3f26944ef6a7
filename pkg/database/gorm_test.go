package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGormDBSQLiteAndMigrate(t *testing.T) {
	db, err := NewGormDB(DriverSQLite, filepath.Join(t.TempDir(), "ppods.db"))
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable("user_profiles"))
	assert.True(t, db.Migrator().HasTable("app_state_blobs"))
}

func TestNewGormDBUnsupportedDriver(t *testing.T) {
	_, err := NewGormDB("oracle", "whatever")
	assert.Error(t, err)
}

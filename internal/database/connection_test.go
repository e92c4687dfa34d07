package database

import (
	"path/filepath"
	"testing"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	testCases := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name:     "postgres from fields",
			config:   DatabaseConfig{Driver: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", Name: "canteen", SSLMode: "disable"},
			expected: "host=db user=u password=p dbname=canteen port=5432 sslmode=disable",
		},
		{
			name:     "postgres url wins",
			config:   DatabaseConfig{Driver: "postgresql", URL: "postgres://u:p@db/canteen", Host: "ignored"},
			expected: "postgres://u:p@db/canteen",
		},
		{
			name:     "sqlite path",
			config:   DatabaseConfig{Driver: "sqlite", Path: "canteen.sqlite"},
			expected: "canteen.sqlite?_busy_timeout=5000",
		},
		{
			name:     "sqlite dsn with options is kept",
			config:   DatabaseConfig{Driver: "sqlite", Path: "file::memory:?cache=shared"},
			expected: "file::memory:?cache=shared",
		},
		{
			name:     "unknown driver",
			config:   DatabaseConfig{Driver: "oracle"},
			expected: "",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}

func TestStringMasksPassword(t *testing.T) {
	cfg := DatabaseConfig{Driver: "postgres", Password: "hunter2"}
	assert.NotContains(t, cfg.String(), "hunter2")
}

func TestInitDatabaseSQLiteAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canteen.sqlite")
	db, err := InitDatabase(DatabaseConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	require.NoError(t, Migrate(db))
	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestInitDatabaseUnsupportedDriver(t *testing.T) {
	_, err := InitDatabase(DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

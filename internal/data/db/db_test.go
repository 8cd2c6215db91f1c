package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/learnpath-backend/internal/platform/logger"
)

func TestPostgresDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5432, User: "u", Password: "p", Name: "learnpath"}
	assert.Equal(t, "postgres://u:p@db:5432/learnpath?sslmode=disable", cfg.PostgresDSN())

	cfg.SSLMode = "require"
	assert.Equal(t, "postgres://u:p@db:5432/learnpath?sslmode=require", cfg.PostgresDSN())

	cfg.DSN = "postgres://override"
	assert.Equal(t, "postgres://override", cfg.PostgresDSN())
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	svc, err := Open(Config{Driver: DriverSQLite, DSN: "file::memory:", MaxOpenConns: 1}, logger.Nop())
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, AutoMigrateAll(svc.DB()))
	assert.True(t, svc.DB().Migrator().HasTable("learning_paths"))
	assert.True(t, svc.DB().Migrator().HasTable("user_progress"))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"}, logger.Nop())
	assert.Error(t, err)
}

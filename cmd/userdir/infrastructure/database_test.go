package infrastructure

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-directory-service/internal/config"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		DB: config.DatabaseConfig{
			Backend:             config.BackendSQLite,
			SQLitePath:          filepath.Join(t.TempDir(), "users.db"),
			SQLiteBusyTimeoutMS: 30000,
			SQLiteJournalMode:   "WAL",
			SQLiteForeignKeys:   true,
			MaxOpenConns:        4,
			MaxIdleConns:        2,
		},
		Logger: config.LoggerConfig{Level: "warn", SlowQuerySeconds: 0.2},
	}
}

func TestNewDatabase_SQLite(t *testing.T) {
	db, err := NewDatabase(sqliteConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.True(t, db.Migrator().HasTable("users"))

	var mode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)
}

func TestNewDatabase_RejectsMemoryBackend(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.DB.Backend = config.BackendMemory

	_, err := NewDatabase(cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	cfg := &config.Config{Redis: config.RedisConfig{Host: host, Port: port, PoolSize: 2}}
	rdb, err := NewRedisClient(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer rdb.Close()

	assert.NoError(t, rdb.Ping(context.Background()))
}

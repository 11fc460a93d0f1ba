package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.DB.Backend)
	assert.Equal(t, "./users.db", cfg.DB.SQLitePath)
	assert.Equal(t, 30000, cfg.DB.SQLiteBusyTimeoutMS)
	assert.Equal(t, "WAL", cfg.DB.SQLiteJournalMode)
	assert.True(t, cfg.DB.SQLiteForeignKeys)
	assert.Equal(t, "8000", cfg.App.HTTPPort)
	assert.Equal(t, "50051", cfg.App.GRPCPort)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.False(t, cfg.Seed.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "MEMORY")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("BCRYPT_COST", "12")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.DB.Backend)
	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Logger.EnableSampling)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "STORAGE_BACKEND=postgres\nDB_HOST=db.internal\nDB_NAME=users\nSEED_USER_EMAIL=admin@example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.DB.Backend)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "host=db.internal user=postgres password=postgres dbname=users port=5432 sslmode=disable", cfg.DB.DSN())
	assert.True(t, cfg.Seed.Enabled())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DB:       DatabaseConfig{Backend: BackendSQLite, SQLitePath: "users.db", SQLiteBusyTimeoutMS: 1000},
			App:      AppConfig{HTTPPort: "8000", GRPCPort: "50051", GRPCEnabled: true},
			Security: SecurityConfig{BcryptCost: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.DB.Backend = "mongo" }, wantErr: "unknown STORAGE_BACKEND"},
		{name: "sqlite without path", mutate: func(c *Config) { c.DB.SQLitePath = "" }, wantErr: "SQLITE_PATH"},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.Security.BcryptCost = 2 }, wantErr: "BCRYPT_COST"},
		{name: "redis without ttl", mutate: func(c *Config) { c.Redis.Enabled = true }, wantErr: "REDIS_CACHE_TTL"},
		{name: "sqlite in memory", mutate: func(c *Config) { c.DB.SQLitePath = ":memory:" }, wantErr: "in-memory database"},
		{name: "sqlite shared memory uri", mutate: func(c *Config) { c.DB.SQLitePath = "file:users?mode=memory&cache=shared" }, wantErr: "in-memory database"},
		{name: "unknown journal mode", mutate: func(c *Config) { c.DB.SQLiteJournalMode = "wal2); DROP" }, wantErr: "SQLITE_JOURNAL_MODE"},
		{name: "journal mode any case", mutate: func(c *Config) { c.DB.SQLiteJournalMode = "truncate" }},
		{name: "grpc without port", mutate: func(c *Config) { c.App.GRPCPort = "" }, wantErr: "GRPC_PORT"},
		{
			name:    "incomplete seed",
			mutate:  func(c *Config) { c.Seed.Email = "admin@example.com" },
			wantErr: "SEED_USER_NAME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-directory-service/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		DB: config.DatabaseConfig{Backend: config.BackendMemory},
		App: config.AppConfig{
			Env:                    "test",
			HTTPPort:               "0",
			GRPCPort:               "0",
			GRPCEnabled:            true,
			ShutdownTimeoutSeconds: 5,
		},
		Logger:   config.LoggerConfig{Level: "warn", ServiceName: "user-directory-service"},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	a, err := New(ctx, testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("application did not stop")
	}
}

func TestApp_RunReturnsListenError(t *testing.T) {
	cfg := testConfig()
	cfg.App.HTTPPort = "not-a-port"

	a, err := New(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	err = a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestNewLogger(t *testing.T) {
	cfg := testConfig()
	cfg.Logger.Format = "json"
	cfg.Logger.OutputPath = filepath.Join(t.TempDir(), "app.log")

	l, err := NewLogger(cfg)
	require.NoError(t, err)
	l.Info("ready")
	assert.NoError(t, SyncLogger(l))
}

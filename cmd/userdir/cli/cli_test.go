package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sqliteEnv points the configuration at a fresh SQLite file.
func sqliteEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.db")
	t.Setenv("CONFIG_PATH", t.TempDir())
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", path)
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_OUTPUT_PATH", filepath.Join(t.TempDir(), "cli.log"))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitDB(t *testing.T) {
	sqliteEnv(t)

	out, err := execute(t, "init-db")
	require.NoError(t, err)
	assert.Contains(t, out, "database ready (sqlite)")
	assert.Contains(t, out, "users")
	assert.NotContains(t, out, "userdir_write_check")
}

func TestInitDB_RejectsMemoryBackend(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("STORAGE_BACKEND", "memory")

	_, err := execute(t, "init-db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "durable backend")
}

func TestCreateUser_PersistsAndRejectsDuplicate(t *testing.T) {
	sqliteEnv(t)

	out, err := execute(t, "create-user", "--name", "Ada Lovelace", "--email", "ada@example.com", "--password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "created user 1: Ada Lovelace <ada@example.com>")
	assert.NotContains(t, out, "s3cret")

	_, err = execute(t, "create-user", "--name", "Other", "--email", "ada@example.com", "--password", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email already registered")

	out, err = execute(t, "create-user", "--name", "Grace Hopper", "--email", "grace@example.com", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "created user 2")
}

func TestInitDB_ResetClearsUsers(t *testing.T) {
	sqliteEnv(t)

	_, err := execute(t, "create-user", "--name", "Ada", "--email", "ada@example.com", "--password", "pw")
	require.NoError(t, err)

	out, err := execute(t, "init-db", "--reset")
	require.NoError(t, err)
	assert.Contains(t, out, "dropped existing users table")

	out, err = execute(t, "create-user", "--name", "Ada", "--email", "ada@example.com", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "created user 1")
}

func TestCreateUser_RequiresFlags(t *testing.T) {
	sqliteEnv(t)

	_, err := execute(t, "create-user", "--name", "Ada")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestRoot_InvalidConfig(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("STORAGE_BACKEND", "mongodb")

	_, err := execute(t, "create-user", "--name", "A", "--email", "a@example.com", "--password", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

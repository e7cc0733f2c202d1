package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usersvc/internal/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "usersvc version "+version.Version)
	assert.Contains(t, out, "Commit: ")
}

func TestVersionFlag(t *testing.T) {
	t.Cleanup(func() { _ = rootCmd.Flags().Set("version", "false") })

	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "usersvc version "+version.Info()+"\n", out)
}

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "users.db")
	t.Setenv("DATABASE_URL", dbPath)
	t.Setenv("LOG_LEVEL", "error")

	_, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.FileExists(t, dbPath)

	// A second run finds the table already there.
	_, err = execute(t, "migrate")
	require.NoError(t, err)
}

func TestMigrateCommand_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := execute(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteConfigFixture writes content to name inside a fresh temp directory and
// returns the file's path.
func WriteConfigFixture(t *testing.T, name, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "Failed to write fixture file: %s", path)

	return path
}

// Chdir switches the working directory for the duration of the test.
func Chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

// Setenv sets environment variables for the duration of the test.
func Setenv(t *testing.T, vars map[string]string) {
	t.Helper()

	for k, v := range vars {
		t.Setenv(k, v)
	}
}

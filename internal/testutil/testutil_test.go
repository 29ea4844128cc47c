package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	assert.False(t, FileExists("/non/existent/file"))

	path := WriteConfigFixture(t, "present.yaml", "")
	assert.True(t, FileExists(path))
}

func TestBusyWait(t *testing.T) {
	const d = 2 * time.Millisecond

	start := time.Now()
	BusyWait(d)
	assert.GreaterOrEqual(t, time.Since(start), d)
}

func TestWriteConfigFixture(t *testing.T) {
	path := WriteConfigFixture(t, "timeit.yaml", "log_level: debug\n")

	data, err := os.ReadFile(path) //nolint:gosec // G304: test fixture path
	require.NoError(t, err)
	assert.Equal(t, "log_level: debug\n", string(data))
}

func TestChdir(t *testing.T) {
	dir := t.TempDir()
	Chdir(t, dir)

	wd, err := os.Getwd()
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	wdResolved, err := filepath.EvalSymlinks(wd)
	require.NoError(t, err)
	assert.Equal(t, resolved, wdResolved)
}

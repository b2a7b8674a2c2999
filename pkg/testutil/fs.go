package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewMemFS creates an in-memory filesystem holding files, keyed by path
func NewMemFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		WriteFile(t, fs, path, content)
	}
	return fs
}

// WriteFile creates path and its parent directories
func WriteFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

// ReadFile returns the content of path and fails the test when it is missing
func ReadFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err, "reading %s", path)
	return string(data)
}

// AssertFileExists fails the test when path is not a regular file
func AssertFileExists(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	info, err := fs.Stat(path)
	if !assert.NoError(t, err, "expected %s to exist", path) {
		return false
	}
	return assert.False(t, info.IsDir(), "expected %s to be a file", path)
}

// AssertNoFile fails the test when path exists
func AssertNoFile(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	return assert.False(t, exists, "expected %s not to exist", path)
}

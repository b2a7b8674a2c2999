package filesystem_test

import (
	"testing"
	"time"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStale(t *testing.T) {
	fs := afero.NewMemMapFs()
	now := time.Now()
	require.NoError(t, afero.WriteFile(fs, "/in.txt", []byte("in"), 0644))
	require.NoError(t, fs.Chtimes("/in.txt", now, now))

	stale, err := filesystem.IsStale(fs, "/out.json", "/in.txt")
	require.NoError(t, err)
	assert.True(t, stale, "missing output")

	require.NoError(t, afero.WriteFile(fs, "/out.json", []byte("out"), 0644))
	require.NoError(t, fs.Chtimes("/out.json", now, now))
	stale, err = filesystem.IsStale(fs, "/out.json", "/in.txt")
	require.NoError(t, err)
	assert.False(t, stale, "same timestamp")

	earlier := now.Add(-time.Hour)
	require.NoError(t, fs.Chtimes("/out.json", earlier, earlier))
	stale, err = filesystem.IsStale(fs, "/out.json", "/in.txt")
	require.NoError(t, err)
	assert.True(t, stale, "older output")

	_, err = filesystem.IsStale(fs, "/out.json", "/missing.txt")
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
}

func TestBareFileName(t *testing.T) {
	assert.Equal(t, "boot", filesystem.BareFileName("/models/boot.txt"))
	assert.Equal(t, "oak.tar", filesystem.BareFileName("oak.tar.gz"))
	assert.Equal(t, ".hidden", filesystem.BareFileName(".hidden"))
	assert.Equal(t, "plain", filesystem.BareFileName("plain"))
}

func TestIndexedPath(t *testing.T) {
	assert.Equal(t, "/out/app_2.json", filesystem.IndexedPath("/out/app.json", 2))
	assert.Equal(t, "/out/app_1", filesystem.IndexedPath("/out/app", 1))
}

func TestListFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{"/m/b.txt", "/m/a.txt", "/m/.hidden", "/m/sub/c.txt"} {
		require.NoError(t, afero.WriteFile(fs, name, nil, 0644))
	}
	files, err := filesystem.ListFiles(fs, "/m")
	require.NoError(t, err)
	assert.Equal(t, []string{"/m/a.txt", "/m/b.txt"}, files)

	_, err = filesystem.ListFiles(fs, "/nowhere")
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
}

func TestEnsureDirAndExists(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, filesystem.EnsureDir(fs, "/a/b"))
	assert.True(t, filesystem.Exists(fs, "/a/b"))
	assert.False(t, filesystem.Exists(fs, "/a/c"))
}

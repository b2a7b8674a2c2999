package internal_test

import (
	"io"
	"testing"
	"time"

	"github.com/arthur-debert/modelconv/pkg/commands/internal"
	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/testutil"
	"github.com/arthur-debert/modelconv/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandInputs(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{"/models/b.txt", "/models/a.txt", "/models/readme.md", "/single.txt"} {
		require.NoError(t, afero.WriteFile(fs, name, nil, 0644))
	}

	files, err := internal.ExpandInputs(fs, []string{"/single.txt", "/models"}, ".txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"/single.txt", "/models/a.txt", "/models/b.txt"}, files)

	_, err = internal.ExpandInputs(fs, nil, ".txt")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = internal.ExpandInputs(fs, []string{"/missing"}, ".txt")
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))

	_, err = internal.ExpandInputs(fs, []string{"/models"}, ".json")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestSkip(t *testing.T) {
	fs := afero.NewMemMapFs()
	now := time.Now()
	require.NoError(t, afero.WriteFile(fs, "/in.txt", nil, 0644))
	require.NoError(t, fs.Chtimes("/in.txt", now, now))

	skip, status, err := internal.Skip(fs, "/out.json", "/in.txt")
	require.NoError(t, err)
	assert.False(t, skip)
	assert.Equal(t, types.OutputWritten, status)

	require.NoError(t, afero.WriteFile(fs, "/out.json", nil, 0644))
	require.NoError(t, fs.Chtimes("/out.json", now.Add(time.Minute), now.Add(time.Minute)))
	skip, status, err = internal.Skip(fs, "/out.json", "/in.txt")
	require.NoError(t, err)
	assert.True(t, skip)
	assert.Equal(t, types.OutputUpToDate, status)

	require.NoError(t, fs.Chtimes("/out.json", now.Add(-time.Minute), now.Add(-time.Minute)))
	skip, status, err = internal.Skip(fs, "/out.json", "/in.txt")
	require.NoError(t, err)
	assert.False(t, skip)
	assert.Equal(t, types.OutputReplaced, status)
	exists, _ := afero.Exists(fs, "/out.json")
	assert.False(t, exists, "stale output is removed")
}

func TestWriteOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	logs := testutil.CaptureLogs(t)
	err := internal.WriteOutput(fs, "/out/dir/file.txt", func(w io.Writer) error {
		_, err := w.Write([]byte("content"))
		return err
	})
	require.NoError(t, err)
	data, err := afero.ReadFile(fs, "/out/dir/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
	assert.Contains(t, logs.String(), `"component":"commands"`)
	assert.Contains(t, logs.String(), "Written output")

	err = internal.WriteOutput(fs, "/out/failed.txt", func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New(errors.ErrModelWrite, "boom")
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrModelWrite))
	exists, _ := afero.Exists(fs, "/out/failed.txt")
	assert.False(t, exists)
}

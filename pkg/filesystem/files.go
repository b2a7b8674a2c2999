package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/spf13/afero"
)

// NewOS returns the operating system filesystem
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// IsStale reports whether output must be regenerated from input: it is
// missing or older than input. An output with the same timestamp counts as
// up to date.
func IsStale(fs afero.Fs, output, input string) (bool, error) {
	in, err := fs.Stat(input)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileNotFound, "cannot stat %s", input)
	}
	out, err := fs.Stat(output)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", output)
	}
	return out.ModTime().Before(in.ModTime()), nil
}

// Exists reports whether path exists
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// BareFileName strips the directory and the last extension. Names starting
// with a dot keep it.
func BareFileName(path string) string {
	name := filepath.Base(path)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}

// IndexedPath inserts "_<index>" before the extension of path
func IndexedPath(path string, index int) string {
	suffix := "_" + strconv.Itoa(index)
	dir, name := filepath.Split(path)
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return dir + name[:idx] + suffix + name[idx:]
	}
	return path + suffix
}

// ListFiles returns the regular, non hidden files of dir, sorted by name
func ListFiles(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// EnsureDir creates dir and its parents
func EnsureDir(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create directory %s", dir)
	}
	return nil
}

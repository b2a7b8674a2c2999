// Package internal holds the steps shared by the conversion commands:
// expanding inputs and writing outputs with the staleness rules.
package internal

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/filesystem"
	"github.com/arthur-debert/modelconv/pkg/logging"
	"github.com/arthur-debert/modelconv/pkg/types"
	"github.com/spf13/afero"
)

// ExpandInputs replaces every directory in inputs by the files it contains
// with the given extension. Files are kept as given, in order.
func ExpandInputs(fs afero.Fs, inputs []string, ext string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no input files given")
	}
	var files []string
	for _, in := range inputs {
		info, err := fs.Stat(in)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "input %s not found", in)
		}
		if !info.IsDir() {
			files = append(files, in)
			continue
		}
		listed, err := filesystem.ListFiles(fs, in)
		if err != nil {
			return nil, err
		}
		for _, f := range listed {
			if strings.EqualFold(filepath.Ext(f), ext) {
				files = append(files, f)
			}
		}
	}
	if len(files) == 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "no %s files found in %s", ext, strings.Join(inputs, ", "))
	}
	return files, nil
}

// Skip reports whether output is up to date with input. A stale output is
// removed; status tells whether the next write replaces a file.
func Skip(fs afero.Fs, output, input string) (bool, types.OutputStatus, error) {
	logger := logging.GetLogger("commands")
	if !filesystem.Exists(fs, output) {
		return false, types.OutputWritten, nil
	}
	stale, err := filesystem.IsStale(fs, output, input)
	if err != nil {
		return false, "", err
	}
	if !stale {
		logger.Debug().Str("output", output).Msg("Output is up to date, skipping")
		return true, types.OutputUpToDate, nil
	}
	logger.Debug().Str("output", output).Msg("Removing stale output")
	if err := fs.Remove(output); err != nil {
		return false, "", errors.Wrapf(err, errors.ErrFileWrite, "cannot remove stale output %s", output)
	}
	return false, types.OutputReplaced, nil
}

// WriteOutput renders through write into a buffer and stores the result at
// path, creating its directory. Nothing is written when rendering fails.
func WriteOutput(fs afero.Fs, path string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	if err := filesystem.EnsureDir(fs, filepath.Dir(path)); err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
	}
	logger := logging.GetLogger("commands")
	logger.Info().Str("path", path).Msg("Written output")
	return nil
}

package genconfig

import (
	"path/filepath"

	"github.com/arthur-debert/modelconv/pkg/config"
	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/filesystem"
	"github.com/arthur-debert/modelconv/pkg/logging"
	"github.com/arthur-debert/modelconv/pkg/types"
	"github.com/spf13/afero"
)

// GenConfigOptions holds options for the genconfig command
type GenConfigOptions struct {
	FS afero.Fs
	// Effective renders the loaded configuration instead of the template
	Effective *config.Config
	// Write stores the content as a project file in Dir
	Write bool
	Dir   string
}

// GenConfig returns a configuration file and optionally writes it
func GenConfig(opts GenConfigOptions) (*types.GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")

	content := config.GenerateTemplate()
	if opts.Effective != nil {
		var err error
		if content, err = config.Generate(opts.Effective); err != nil {
			return nil, err
		}
	}
	result := &types.GenConfigResult{ConfigContent: content, FilesWritten: []string{}}

	if !opts.Write {
		logger.Debug().Msg("Outputting config to stdout")
		return result, nil
	}

	target := filepath.Join(opts.Dir, config.ProjectConfigName+".toml")
	if filesystem.Exists(opts.FS, target) {
		return result, errors.Newf(errors.ErrOutputExists, "config file %s already exists", target).
			WithDetail("path", target)
	}
	if err := filesystem.EnsureDir(opts.FS, filepath.Dir(target)); err != nil {
		return result, err
	}
	if err := afero.WriteFile(opts.FS, target, []byte(content), 0644); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileWrite, "cannot write config to %s", target)
	}
	logger.Info().Str("path", target).Msg("Written config file")
	result.FilesWritten = append(result.FilesWritten, target)
	return result, nil
}

// Package artifacts turns Maven coordinates into readable files. Only the
// model loading machinery (includes, prototypes) needs it; the converter
// itself never resolves artifacts.
package artifacts

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/logging"
	"github.com/arthur-debert/modelconv/pkg/types"
	"github.com/beevik/etree"
	"github.com/spf13/afero"
)

// Resolver maps a coordinate to a path readable from the resolver's filesystem
type Resolver interface {
	Resolve(id types.ArtifactID) (string, error)
}

// ResolverFunc adapts a function to Resolver
type ResolverFunc func(id types.ArtifactID) (string, error)

// Resolve calls f
func (f ResolverFunc) Resolve(id types.ArtifactID) (string, error) {
	return f(id)
}

// LocalRepository resolves artifacts from a Maven style local repository
type LocalRepository struct {
	Root string
	fs   afero.Fs
}

// NewLocalRepository creates a resolver rooted at root
func NewLocalRepository(fs afero.Fs, root string) *LocalRepository {
	return &LocalRepository{Root: root, fs: fs}
}

// Path returns the repository path of id without checking that it exists
func (r *LocalRepository) Path(id types.ArtifactID) string {
	file := id.ArtifactID + "-" + id.Version
	if id.Classifier != "" {
		file += "-" + id.Classifier
	}
	file += "." + id.TypeOrDefault()

	parts := append(strings.Split(id.GroupID, "."), id.ArtifactID, id.Version, file)
	return filepath.Join(append([]string{r.Root}, parts...)...)
}

// Resolve returns the path of id, failing when the file is missing
func (r *LocalRepository) Resolve(id types.ArtifactID) (string, error) {
	logger := logging.GetLogger("artifacts")
	path := r.Path(id)
	if _, err := r.fs.Stat(path); err != nil {
		return "", errors.Wrapf(err, errors.ErrArtifactResolve, "artifact %s not found in %s", id, r.Root).
			WithDetail("path", path)
	}
	logger.Debug().Str("artifact", id.String()).Str("path", path).Msg("Resolved artifact")
	return path, nil
}

// DefaultRoot locates the local repository: an explicit override wins, then
// <localRepository> from ~/.m2/settings.xml, then ~/.m2/repository.
func DefaultRoot(fs afero.Fs, override string) (string, error) {
	if override != "" {
		return expandHome(override)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrArtifactResolve, "cannot determine home directory")
	}
	settings := filepath.Join(home, ".m2", "settings.xml")
	if f, err := fs.Open(settings); err == nil {
		defer func() { _ = f.Close() }()
		if root, err := ReadSettingsLocalRepository(f); err == nil && root != "" {
			return expandHome(root)
		}
	}
	return filepath.Join(home, ".m2", "repository"), nil
}

// ReadSettingsLocalRepository extracts <settings><localRepository> from a
// Maven settings.xml document. An absent element yields an empty string.
func ReadSettingsLocalRepository(r io.Reader) (string, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return "", errors.Wrap(err, errors.ErrConfigParse, "cannot parse maven settings")
	}
	root := doc.SelectElement("settings")
	if root == nil {
		return "", errors.New(errors.ErrConfigParse, "maven settings without <settings> root")
	}
	el := root.SelectElement("localRepository")
	if el == nil {
		return "", nil
	}
	return strings.TrimSpace(el.Text()), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrArtifactResolve, "cannot determine home directory")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

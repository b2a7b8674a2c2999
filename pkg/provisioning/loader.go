package provisioning

import (
	"path/filepath"
	"slices"

	"github.com/arthur-debert/modelconv/pkg/artifacts"
	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/logging"
	"github.com/arthur-debert/modelconv/pkg/types"
	"github.com/spf13/afero"
)

const (
	// ModelFilenameMetadata records which file an artifact was declared in
	ModelFilenameMetadata = "model-filename"

	includeSlingstart   = "slingstart"
	includeSlingfeature = "slingfeature"
)

// Loader reads model files into one effective model. Artifacts of type
// slingstart or slingfeature are includes: they are resolved to further
// model files and merged in place of the artifact.
type Loader struct {
	FS afero.Fs
	// Resolver locates included models; without one includes fail
	Resolver artifacts.Resolver
	// IncludeModelInfo adds model-filename metadata to every artifact
	IncludeModelInfo bool
}

// Load merges the files in order, computes the effective model keeping
// variable placeholders and validates it
func (l *Loader) Load(paths ...string) (*Model, error) {
	logger := logging.GetLogger("provisioning")
	logger.Info().Strs("files", paths).Msg("Assembling model")

	var model *Model
	for _, p := range paths {
		var err error
		if model, err = l.process(model, p, nil); err != nil {
			return nil, err
		}
	}
	if model == nil {
		return nil, errors.New(errors.ErrInvalidInput, "no model files given")
	}

	effective, err := Effective(model, KeepPlaceholders)
	if err != nil {
		return nil, err
	}
	if err := Validate(effective); err != nil {
		return nil, err
	}
	return effective, nil
}

// ReadFile reads a single model file without resolving anything
func (l *Loader) ReadFile(path string) (*Model, error) {
	f, err := l.FS.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileNotFound, "cannot open provisioning model %s", path)
	}
	defer func() { _ = f.Close() }()
	return Read(f, path)
}

func (l *Loader) process(model *Model, path string, chain []string) (*Model, error) {
	logger := logging.GetLogger("provisioning")
	if slices.Contains(chain, path) {
		return nil, errors.Newf(errors.ErrModelInvalid, "include cycle through %s", path).
			WithDetail("chain", append(chain, path))
	}
	chain = append(slices.Clone(chain), path)
	logger.Debug().Str("file", path).Msg("Reading model")

	next, err := l.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// Includes may use variables in their coordinates
	resolved, err := Effective(next, FromVariablesOrKeep)
	if err != nil {
		return nil, err
	}

	for fi, feature := range resolved.Features {
		for ri, rm := range feature.RunModes {
			for gi, group := range rm.ArtifactGroups {
				raw := next.Features[fi].RunModes[ri].ArtifactGroups[gi]
				kept := make([]*Artifact, 0, len(raw.Artifacts))
				for ai, a := range group.Artifacts {
					if !isInclude(a) {
						if l.IncludeModelInfo {
							raw.Artifacts[ai].Metadata.Put(ModelFilenameMetadata, filepath.Base(path))
						}
						kept = append(kept, raw.Artifacts[ai])
						continue
					}
					if model, err = l.include(model, a.ID, chain); err != nil {
						return nil, err
					}
				}
				raw.Artifacts = kept
			}
		}
	}

	if model == nil {
		return next, nil
	}
	Merge(model, next)
	return model, nil
}

func (l *Loader) include(model *Model, id types.ArtifactID, chain []string) (*Model, error) {
	target := types.ArtifactID{
		GroupID:    id.GroupID,
		ArtifactID: id.ArtifactID,
		Version:    id.Version,
		Classifier: id.Classifier,
		Type:       "txt",
	}
	if id.Type == includeSlingstart {
		target.Classifier = includeSlingfeature
	}
	if l.Resolver == nil {
		return nil, errors.Newf(errors.ErrArtifactResolve, "cannot resolve included model %s without a repository", id)
	}
	path, err := l.Resolver.Resolve(target)
	if err != nil {
		return nil, err
	}
	logger := logging.GetLogger("provisioning")
	logger.Debug().Str("include", id.String()).Str("file", path).Msg("Including model")
	return l.process(model, path, chain)
}

func isInclude(a *Artifact) bool {
	return a.ID.Type == includeSlingstart || a.ID.Type == includeSlingfeature
}

package feature

import (
	"slices"

	"github.com/arthur-debert/modelconv/pkg/artifacts"
	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/logging"
	"github.com/arthur-debert/modelconv/pkg/types"
	"github.com/spf13/afero"
)

// Provider looks features up by identity
type Provider interface {
	Provide(id types.ArtifactID) (*Feature, error)
}

// MapProvider serves already loaded features
type MapProvider map[string]*Feature

// NewMapProvider indexes features by their mvn id
func NewMapProvider(features ...*Feature) MapProvider {
	m := make(MapProvider, len(features))
	for _, f := range features {
		m[f.ID.MvnID()] = f
	}
	return m
}

// Provide returns the feature or an ErrFeatureNotFound error
func (m MapProvider) Provide(id types.ArtifactID) (*Feature, error) {
	if f, ok := m[id.MvnID()]; ok {
		return f, nil
	}
	return nil, errors.Newf(errors.ErrFeatureNotFound, "feature %s not found", id)
}

// ChainProvider asks each provider in turn; the first hit wins
type ChainProvider []Provider

// Provide returns the first feature found
func (c ChainProvider) Provide(id types.ArtifactID) (*Feature, error) {
	for _, p := range c {
		f, err := p.Provide(id)
		if err == nil {
			return f, nil
		}
		if !errors.IsErrorCode(err, errors.ErrFeatureNotFound) && !errors.IsErrorCode(err, errors.ErrArtifactResolve) {
			return nil, err
		}
	}
	return nil, errors.Newf(errors.ErrFeatureNotFound, "feature %s not found", id)
}

// RepositoryProvider reads features from files located by an artifact resolver
type RepositoryProvider struct {
	Resolver artifacts.Resolver
	FS       afero.Fs
}

// Provide resolves id and reads the feature file
func (p *RepositoryProvider) Provide(id types.ArtifactID) (*Feature, error) {
	path, err := p.Resolver.Resolve(id)
	if err != nil {
		return nil, err
	}
	file, err := p.FS.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot open feature %s", path)
	}
	defer func() { _ = file.Close() }()
	return Read(file, path)
}

// Assemble resolves the prototype chain of f and returns a self contained
// feature. The prototype's content comes first; f's own entries replace
// those with the same identity, pid, key or extension name. f is not modified.
func Assemble(f *Feature, provider Provider) (*Feature, error) {
	return assemble(f, provider, nil)
}

func assemble(f *Feature, provider Provider, seen []string) (*Feature, error) {
	if f.Prototype == nil {
		return f.Clone(), nil
	}
	key := f.ID.MvnID()
	if slices.Contains(seen, key) {
		return nil, errors.Newf(errors.ErrModelInvalid, "prototype cycle through %s", key).
			WithDetail("chain", append(seen, key))
	}
	logger := logging.GetLogger("feature")
	logger.Debug().Str("feature", key).Str("prototype", f.Prototype.ID.MvnID()).Msg("Assembling prototype")

	proto, err := provider.Provide(f.Prototype.ID)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFeatureNotFound, "cannot provide prototype %s of %s", f.Prototype.ID, key)
	}
	base, err := assemble(proto, provider, append(seen, key))
	if err != nil {
		return nil, err
	}
	applyRemovals(base, f.Prototype)

	out := base
	out.ID = f.ID
	out.Location = f.Location
	out.Prototype = nil
	if f.Title != "" {
		out.Title = f.Title
	}
	if f.Description != "" {
		out.Description = f.Description
	}
	out.Variables.PutAll(f.Variables)
	out.FrameworkProperties.PutAll(f.FrameworkProperties)
	for _, b := range f.Bundles {
		out.Bundles = slices.DeleteFunc(out.Bundles, func(o *Artifact) bool { return o.ID.SameIdentity(b.ID) })
		out.Bundles = append(out.Bundles, b.Clone())
	}
	for _, c := range f.Configurations {
		out.Configurations = slices.DeleteFunc(out.Configurations, func(o *Configuration) bool { return o.PID == c.PID })
		out.Configurations = append(out.Configurations, c.Clone())
	}
	for _, e := range f.Extensions {
		out.Extensions = slices.DeleteFunc(out.Extensions, func(o *Extension) bool { return o.Name == e.Name })
		out.Extensions = append(out.Extensions, e.Clone())
	}
	return out, nil
}

func applyRemovals(f *Feature, p *Prototype) {
	for _, id := range p.BundleRemovals {
		f.Bundles = slices.DeleteFunc(f.Bundles, func(b *Artifact) bool { return b.ID.SameIdentity(id) })
	}
	for _, pid := range p.ConfigurationRemovals {
		f.Configurations = slices.DeleteFunc(f.Configurations, func(c *Configuration) bool { return c.PID == pid })
	}
	for _, key := range p.FrameworkPropertyRemovals {
		f.FrameworkProperties.Remove(key)
	}
	for _, name := range p.ExtensionRemovals {
		f.Extensions = slices.DeleteFunc(f.Extensions, func(e *Extension) bool { return e.Name == name })
	}
}

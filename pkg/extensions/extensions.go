// Package extensions maps the feature model extensions that have a
// provisioning model counterpart: content packages and repoinit scripts.
// Any other extension cannot be carried; required ones abort the conversion.
package extensions

import (
	"path"
	"strings"

	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/feature"
	"github.com/arthur-debert/modelconv/pkg/logging"
	"github.com/arthur-debert/modelconv/pkg/provisioning"
	"github.com/arthur-debert/modelconv/pkg/runmodes"
	"github.com/arthur-debert/modelconv/pkg/startlevel"
)

const (
	// ContentPackages is the ARTIFACTS extension holding zip artifacts
	ContentPackages = "content-packages"
	// Repoinit is both the extension and the provisioning section name
	Repoinit = "repoinit"
	// RepoinitFactoryPID receives repoinit scripts restricted to run modes
	RepoinitFactoryPID = "org.apache.sling.jcr.repoinit.RepositoryInitializer"
	// RepoinitScriptsProperty is the property of RepoinitFactoryPID holding the script
	RepoinitScriptsProperty = "scripts"
	// ContentPackageType is the artifact type diverted to ContentPackages
	ContentPackageType = "zip"
)

// IsContentPackage reports whether a provisioning artifact belongs in the
// content-packages extension rather than the bundle list
func IsContentPackage(a *provisioning.Artifact) bool {
	return a.ID.Type == ContentPackageType
}

// AddContentPackage appends a to the content-packages extension of f,
// creating the extension on first use
func AddContentPackage(f *feature.Feature, a *feature.Artifact) {
	ext := f.Extension(ContentPackages)
	if ext == nil {
		ext = feature.NewExtension(ContentPackages, feature.ExtensionArtifacts, feature.StateRequired)
		f.Extensions = append(f.Extensions, ext)
	}
	ext.Artifacts = append(ext.Artifacts, a)
}

// RepoinitFromSections concatenates every repoinit section of source into
// one TEXT extension on target. A target that already carries repoinit
// content means sections were processed twice.
func RepoinitFromSections(source *provisioning.Feature, target *feature.Feature) error {
	var b strings.Builder
	for _, s := range source.SectionsNamed(Repoinit) {
		b.WriteString(s.Contents)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return nil
	}
	if target.Extension(Repoinit) != nil {
		return errors.Newf(errors.ErrDuplicateRepoinit, "repoinit sections of feature %s already processed", source.Name).
			WithDetail("feature", source.Name)
	}
	ext := feature.NewExtension(Repoinit, feature.ExtensionText, feature.StateRequired)
	ext.Text = b.String()
	target.Extensions = append(target.Extensions, ext)
	return nil
}

// RepoinitText returns the script carried by a TEXT or JSON repoinit
// extension. JSON payloads are arrays of lines; each line is newline terminated.
func RepoinitText(ext *feature.Extension) (string, error) {
	switch ext.Type {
	case feature.ExtensionText:
		return ext.Text, nil
	case feature.ExtensionJSON:
		var lines []any
		if err := feature.UnmarshalJSONExtension(ext, &lines); err != nil {
			return "", err
		}
		var b strings.Builder
		for _, l := range lines {
			if s, ok := l.(string); ok {
				b.WriteString(s)
				b.WriteByte('\n')
			}
		}
		return b.String(), nil
	default:
		return "", errors.Newf(errors.ErrUnsupportedExtension, "unable to convert repoinit extension of type %s", ext.Type).
			WithDetail("extension", ext.Name)
	}
}

// RepoinitConfigName derives the factory configuration name from the
// source file: directory and extension stripped, "-" replaced by "_"
func RepoinitConfigName(sourceName string) string {
	name := path.Base(strings.ReplaceAll(sourceName, "\\", "/"))
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return strings.ReplaceAll(name, "-", "_")
}

// Options carries what ApplyToProvisioning needs beyond the extension
type Options struct {
	// Override replaces any run modes encoded on the extension content
	Override []string
	// SourceName is the file the feature came from, used to name repoinit configurations
	SourceName string
}

// ApplyToProvisioning files ext into target. Unknown optional extensions
// are dropped.
func ApplyToProvisioning(ext *feature.Extension, target *provisioning.Feature, opts Options) error {
	logger := logging.GetLogger("extensions")
	switch ext.Name {
	case ContentPackages:
		for _, cp := range ext.Artifacts {
			a := provisioning.NewArtifact(cp.ID)
			var encoded []string
			for k, v := range cp.Metadata.All() {
				if k == runmodes.ContentPackageMetadataKey {
					encoded = runmodes.DecodeList(v)
					continue
				}
				a.Metadata.Put(k, v)
			}
			modes := runmodes.Select(opts.Override, encoded)
			target.GetOrCreateRunMode(modes).GetOrCreateArtifactGroup(startlevel.DefaultStartLevel).Add(a)
		}
		return nil
	case Repoinit:
		text, err := RepoinitText(ext)
		if err != nil {
			return err
		}
		if len(opts.Override) == 0 {
			section := provisioning.NewSection(Repoinit)
			section.Contents = text
			target.Sections = append(target.Sections, section)
			return nil
		}
		cfg := provisioning.NewConfiguration(RepoinitConfigName(opts.SourceName), RepoinitFactoryPID)
		cfg.Properties.Put(RepoinitScriptsProperty, text)
		rm := target.GetOrCreateRunMode(opts.Override)
		rm.Configurations = append(rm.Configurations, cfg)
		logger.Debug().Str("config", cfg.PID).Strs("runModes", opts.Override).Msg("Repoinit moved to factory configuration")
		return nil
	default:
		if ext.Required() {
			return errors.Newf(errors.ErrUnsupportedExtension, "unable to convert required extension %s", ext.Name).
				WithDetail("extension", ext.Name)
		}
		logger.Debug().Str("extension", ext.Name).Msg("Dropping optional extension")
		return nil
	}
}

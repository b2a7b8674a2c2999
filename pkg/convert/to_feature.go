package convert

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/modelconv/pkg/extensions"
	"github.com/arthur-debert/modelconv/pkg/feature"
	"github.com/arthur-debert/modelconv/pkg/logging"
	"github.com/arthur-debert/modelconv/pkg/provisioning"
	"github.com/arthur-debert/modelconv/pkg/runmodes"
	"github.com/arthur-debert/modelconv/pkg/startlevel"
	"github.com/arthur-debert/modelconv/pkg/types"
)

// ToFeatures converts every feature of an effective provisioning model into
// a feature model. The i-th result corresponds to model.Features[i]. The
// model is not modified.
func ToFeatures(model *provisioning.Model, opts Options) ([]*feature.Feature, error) {
	opts = opts.withDefaults()
	logger := logging.GetLogger("convert")
	logger = logger.With().Str("location", model.Location).Int("features", len(model.Features)).Logger()
	done := logging.LogOperationStart(logger, "to-features")
	defer done()

	out := make([]*feature.Feature, 0, len(model.Features))
	for _, pf := range model.Features {
		f, err := toFeature(pf, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func toFeature(pf *provisioning.Feature, opts Options) (*feature.Feature, error) {
	logger := logging.WithFields(map[string]interface{}{"component": "convert", "feature": pf.Name})

	name := FeatureName(pf.Name, opts.BareFileName)
	version := opts.Version
	if pf.Version != "" && !opts.UseProvidedVersion {
		version = pf.Version
	}
	id := types.ArtifactID{GroupID: opts.GroupID, ArtifactID: name, Version: version}
	if opts.Name != "" {
		id.ArtifactID = opts.Name
		id.Type = NamedFeatureType
		id.Classifier = name
	}
	f := feature.New(id)

	if props, ok := opts.AddFrameworkProperties[strings.ReplaceAll(pf.Name, ":", "")]; ok {
		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			f.FrameworkProperties.Put(k, props[k])
		}
	}

	for k, v := range pf.Variables.All() {
		if opts.dropsVariable(k) {
			logger.Trace().Str("variable", k).Msg("Dropping variable")
			continue
		}
		f.Variables.Put(k, v)
	}

	for _, rm := range pf.RunModes {
		sel := selectRunMode(rm.Names, opts.RunModes)
		if sel == skipped {
			logger.Debug().Str("runMode", rm.String()).Msg("Skipping inactive run mode")
			continue
		}
		var modes []string
		if sel == encoded {
			modes = rm.Names
		}
		convertArtifacts(pf, rm, modes, f, opts)
		convertConfigurations(rm, modes, f, opts)
		for k, v := range rm.Settings.All() {
			f.FrameworkProperties.Put(runmodes.EncodeFrameworkProperty(k, modes), v)
		}
	}

	if err := extensions.RepoinitFromSections(pf, f); err != nil {
		return nil, err
	}

	if f.ID.ArtifactID != pf.Name && !opts.NoProvisioningModelName {
		f.Variables.Put(ModelNameVariable, pf.Name)
	}
	return f, nil
}

// convertArtifacts files the artifacts of rm as bundles or content packages.
// modes is nil when the run mode is not to be encoded.
func convertArtifacts(pf *provisioning.Feature, rm *provisioning.RunMode, modes []string, f *feature.Feature, opts Options) {
	logger := logging.GetLogger("convert")
	for _, group := range rm.ArtifactGroups {
		for _, a := range group.Artifacts {
			if opts.excludes(a.ID.ArtifactID) {
				logger.Debug().Str("artifact", a.ID.String()).Msg("Excluding artifact")
				continue
			}
			id := a.ID
			if v, ok := variableReference(id.Version); ok {
				if value, found := f.Variables.Get(v); found && value != "" {
					id.Version = value
				}
			}
			fa := feature.NewArtifact(id)
			fa.Metadata.PutAll(a.Metadata)

			if extensions.IsContentPackage(a) {
				if len(modes) > 0 {
					fa.Metadata.Put(runmodes.ContentPackageMetadataKey, runmodes.EncodeList(modes))
				}
				extensions.AddContentPackage(f, fa)
				continue
			}

			level := startlevel.ForFeature(pf.Name, group.StartLevel)
			fa.Metadata.Put(startlevel.StartOrderKey, strconv.Itoa(level))
			if len(modes) > 0 {
				fa.Metadata.Put(runmodes.BundleMetadataKey, runmodes.EncodeList(modes))
			}
			f.Bundles = append(f.Bundles, fa)
		}
	}
}

func convertConfigurations(rm *provisioning.RunMode, modes []string, f *feature.Feature, opts Options) {
	logger := logging.GetLogger("convert")
	for _, c := range rm.Configurations {
		pid := runmodes.EncodeInternalKey(c.PID)
		if opts.excludes(pid) {
			logger.Debug().Str("pid", pid).Msg("Excluding configuration")
			continue
		}
		if c.IsFactory() {
			pid = runmodes.EncodeFactoryPID(c.FactoryPID, pid, modes)
		} else {
			pid = runmodes.EncodePID(pid, modes)
		}

		fc := f.Configuration(pid)
		if fc == nil {
			fc = feature.NewConfiguration(pid)
			f.Configurations = append(f.Configurations, fc)
		}
		for k, v := range c.Properties.All() {
			if list, ok := v.([]any); ok {
				v = slices.Clone(list)
			}
			fc.Properties.Put(runmodes.EncodeInternalKey(k), v)
		}
	}
}

// variableReference reports whether s is exactly one ${name} reference
func variableReference(s string) (string, bool) {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") && len(s) > 3 {
		return s[2 : len(s)-1], true
	}
	return "", false
}

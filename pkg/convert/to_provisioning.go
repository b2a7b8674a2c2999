package convert

import (
	"strings"

	"github.com/arthur-debert/modelconv/pkg/extensions"
	"github.com/arthur-debert/modelconv/pkg/feature"
	"github.com/arthur-debert/modelconv/pkg/logging"
	"github.com/arthur-debert/modelconv/pkg/provisioning"
	"github.com/arthur-debert/modelconv/pkg/runmodes"
	"github.com/arthur-debert/modelconv/pkg/startlevel"
)

// ToProvisioning converts one assembled feature (no prototype left) into a
// provisioning model. The main provisioning feature comes first, followed by
// one feature per start-level sentinel in first-seen order. f is not modified.
func ToProvisioning(f *feature.Feature, opts ProvisioningOptions) (*provisioning.Model, error) {
	logger := logging.GetLogger("convert").With().Str("feature", f.ID.MvnID()).Logger()
	done := logging.LogOperationStart(logger, "to-provisioning")
	defer done()

	vars := f.Variables.Clone()
	name := f.ID.ArtifactID
	if v, ok := vars.Remove(ModelNameVariable); ok && v != "" {
		name = v
	}
	var override []string
	if v, ok := vars.Remove(RunModesVariable); ok && strings.TrimSpace(v) != "" {
		override = strings.Split(v, ",")
		logger.Debug().Strs("runModes", override).Msg("Run mode override")
	}

	pf := provisioning.NewFeature(name)
	pf.Location = f.Location
	pf.Variables.PutAll(vars)
	sentinels := startlevel.NewSentinels()

	for _, b := range f.Bundles {
		if err := placeBundle(b, pf, sentinels, override); err != nil {
			return nil, err
		}
	}

	for _, c := range f.Configurations {
		var pc *provisioning.Configuration
		var modes []string
		if factory, cfgName, encoded, ok := runmodes.DecodeFactoryPID(c.PID); ok {
			pc = provisioning.NewConfiguration(cfgName, factory)
			modes = encoded
		} else {
			var pid string
			pid, modes = runmodes.DecodePID(c.PID)
			pc = provisioning.NewConfiguration(pid, "")
		}
		for k, v := range c.Properties.All() {
			pc.Properties.Put(runmodes.DecodeInternalKey(k), v)
		}
		rm := pf.GetOrCreateRunMode(runmodes.Select(override, modes))
		rm.Configurations = append(rm.Configurations, pc.Clone())
	}

	for k, v := range f.FrameworkProperties.All() {
		key, modes := runmodes.DecodeFrameworkProperty(k)
		pf.GetOrCreateRunMode(runmodes.Select(override, modes)).Settings.Put(key, v)
	}

	extOpts := extensions.Options{Override: override, SourceName: opts.SourceName}
	for _, ext := range f.Extensions {
		if err := extensions.ApplyToProvisioning(ext, pf, extOpts); err != nil {
			return nil, err
		}
	}

	model := provisioning.NewModel()
	model.Location = f.Location
	model.Features = append(model.Features, pf)
	model.Features = append(model.Features, sentinels.Features()...)
	return model, nil
}

func placeBundle(b *feature.Artifact, pf *provisioning.Feature, sentinels *startlevel.Sentinels, override []string) error {
	a := provisioning.NewArtifact(b.ID)
	var encoded []string
	var level string
	for k, v := range b.Metadata.All() {
		switch k {
		case runmodes.BundleMetadataKey:
			encoded = runmodes.DecodeList(v)
		case startlevel.StartLevelKey:
			level = v
		case startlevel.StartOrderKey:
		default:
			a.Metadata.Put(k, v)
		}
	}
	modes := runmodes.Select(override, encoded)

	placement, err := startlevel.Place(level, b.StartOrder(), modes)
	if err != nil {
		return err
	}
	switch {
	case placement.Sentinel == "":
		pf.GetOrCreateRunMode(modes).GetOrCreateArtifactGroup(placement.Level).Add(a)
	case placement.Sentinel == pf.Name:
		pf.GetOrCreateRunMode(nil).GetOrCreateArtifactGroup(0).Add(a)
	default:
		sentinels.Add(placement.Sentinel, a)
	}
	return nil
}

package convert

import (
	"slices"
	"strings"
)

const (
	// ModelNameVariable carries the provisioning feature name through a feature model
	ModelNameVariable = "provisioning.model.name"
	// RunModesVariable carries a comma separated run mode override into a
	// feature to provisioning conversion
	RunModesVariable = "provisioning.runmodes"

	// DefaultGroupID is the group of generated features
	DefaultGroupID = "generated"
	// DefaultVersion is the version of generated features without one
	DefaultVersion = "1.0.0"
	// NamedFeatureType is the artifact type of features generated with a name option
	NamedFeatureType = "slingfeature"
)

// Options controls the provisioning to feature direction
type Options struct {
	GroupID string
	Version string
	// UseProvidedVersion makes Version win over the provisioning feature's own
	UseProvidedVersion bool
	// Name, when set, becomes the artifact id of every generated feature and
	// the feature name moves into the classifier
	Name string
	// DropVariables are not carried over at all
	DropVariables []string
	// ExcludeBundles lists artifact ids and configuration pids to leave out
	ExcludeBundles []string
	// AddFrameworkProperties injects properties per provisioning feature,
	// keyed by feature name without colons
	AddFrameworkProperties map[string]map[string]string
	// RunModes restricts the conversion to the given active run modes
	RunModes []string
	// NoProvisioningModelName suppresses ModelNameVariable
	NoProvisioningModelName bool
	// BareFileName is the source file name without extension. Feature names
	// other than the default are prefixed with it.
	BareFileName string
}

// withDefaults fills in the group id and version
func (o Options) withDefaults() Options {
	if o.GroupID == "" {
		o.GroupID = DefaultGroupID
	}
	if o.Version == "" {
		o.Version = DefaultVersion
	}
	return o
}

func (o Options) dropsVariable(name string) bool {
	return slices.Contains(o.DropVariables, name)
}

func (o Options) excludes(id string) bool {
	return slices.Contains(o.ExcludeBundles, id)
}

// ProvisioningOptions controls the feature to provisioning direction
type ProvisioningOptions struct {
	// SourceName is the file the feature was read from. Its base name
	// names the repoinit configuration created under a run mode override.
	SourceName string
}

// selection is the outcome of matching a run mode against the active run
// modes requested by the caller
type selection int

const (
	// encoded: content keeps its run modes as string encodings
	encoded selection = iota
	// unconditional: content matched an active run mode and loses its run modes
	unconditional
	// skipped: content belongs to inactive run modes only
	skipped
)

func (s selection) String() string {
	switch s {
	case encoded:
		return "encoded"
	case unconditional:
		return "unconditional"
	default:
		return "skipped"
	}
}

// selectRunMode decides how the content of a run mode group is converted.
// Without active run modes every group is encoded; a group without names is
// unaffected by the filter.
func selectRunMode(names, active []string) selection {
	if len(active) == 0 || len(names) == 0 {
		return encoded
	}
	for _, n := range names {
		if slices.Contains(active, n) {
			return unconditional
		}
	}
	return skipped
}

// FeatureName applies the naming rules for a provisioning feature: an empty
// name becomes "feature", colons are dropped and anything but "feature" or
// the file name itself is prefixed with the file name.
func FeatureName(name, bareFileName string) string {
	if name == "" {
		name = "feature"
	}
	name = strings.ReplaceAll(name, ":", "")
	if bareFileName == "" || name == "feature" || name == bareFileName {
		return name
	}
	return bareFileName + "_" + name
}

// OutputFileName is the file a converted provisioning feature is written to
func OutputFileName(bareFileName, provisioningFeatureName string) string {
	id := strings.ReplaceAll(provisioningFeatureName, ":", "")
	if bareFileName != "" {
		id = bareFileName + "_" + id
	}
	return id + ".json"
}

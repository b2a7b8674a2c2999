package modelconv

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort           = "Convert between Sling provisioning models and feature models"
	MsgToFeatureShort      = "Convert provisioning models to feature models"
	MsgToProvisioningShort = "Convert feature models to provisioning models"
	MsgGenConfigShort      = "Print or write a configuration file"
	MsgVersionShort        = "Show version information"
	MsgCompletionShort     = "Generate shell completion script"

	MsgVersionFormat = "modelconv %s (commit %s, built %s)"

	// Flag descriptions
	MsgFlagVerbose             = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig              = "Configuration file loaded after the project file"
	MsgFlagFormat              = "Output format: auto, term, text or json"
	MsgFlagRepository          = "Local Maven repository for includes and prototypes"
	MsgFlagOutputDir           = "Directory the converted files are written to"
	MsgFlagGroupID             = "Group id of the generated features"
	MsgFlagFeatureVersion      = "Version of the generated features"
	MsgFlagUseProvidedVersion  = "Use --feature-version even when a provisioning feature has a version"
	MsgFlagName                = "Artifact id shared by the generated features, the feature name becomes the classifier"
	MsgFlagDropVariables       = "Variables not carried over into the features"
	MsgFlagFrameworkProperties = "Framework property to add, as model:key=value"
	MsgFlagNoModelName         = "Do not record the provisioning feature name in a variable"
	MsgFlagExcludeBundles      = "Artifact ids and configuration pids to leave out"
	MsgFlagRunModes            = "Only convert these run modes"
	MsgFlagMergeInto           = "Merge all inputs into one model written to this file"
	MsgFlagIncludeModelInfo    = "Record the model file on every artifact"
	MsgFlagApplyRunModeOptions = "Narrow --run-modes with the run mode options of the :boot feature"
	MsgFlagAdditional          = "Feature files searched first for prototypes"
	MsgFlagWrite               = "Write .modelconv.toml to the working directory"
	MsgFlagEffective           = "Print the configuration in use instead of the template"

	// Error messages
	MsgErrNoCommand = "no command specified"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/tofeature-long.txt
	msgToFeatureLongRaw string
	MsgToFeatureLong    = strings.TrimSpace(msgToFeatureLongRaw)

	//go:embed msgs/tofeature-example.txt
	msgToFeatureExampleRaw string
	MsgToFeatureExample    = strings.TrimRight(msgToFeatureExampleRaw, "\n")

	//go:embed msgs/toprovisioning-long.txt
	msgToProvisioningLongRaw string
	MsgToProvisioningLong    = strings.TrimSpace(msgToProvisioningLongRaw)

	//go:embed msgs/toprovisioning-example.txt
	msgToProvisioningExampleRaw string
	MsgToProvisioningExample    = strings.TrimRight(msgToProvisioningExampleRaw, "\n")

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)

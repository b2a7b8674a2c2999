// Package commands provides the command implementations behind the
// modelconv CLI.
//
// Each command is implemented in its own subdirectory:
//   - tofeature/      - ConvertToFeatures and ConvertMerged
//   - toprovisioning/ - ConvertToProvisioning
//   - genconfig/      - GenConfig
//   - internal/       - Input expansion and output writing shared by the conversions
//
// This file re-exports the command functions.
package commands

import (
	"github.com/arthur-debert/modelconv/pkg/commands/genconfig"
	"github.com/arthur-debert/modelconv/pkg/commands/tofeature"
	"github.com/arthur-debert/modelconv/pkg/commands/toprovisioning"
	"github.com/arthur-debert/modelconv/pkg/types"
)

// ToFeatureOptions configures the provisioning to feature conversions
type ToFeatureOptions = tofeature.ToFeatureOptions

// ConvertToFeatures converts each provisioning model file on its own.
func ConvertToFeatures(opts ToFeatureOptions) (*types.ConversionResult, error) {
	return tofeature.ConvertToFeatures(opts)
}

// ConvertMerged merges the provisioning model files and converts the result.
func ConvertMerged(opts ToFeatureOptions, output string) (*types.ConversionResult, error) {
	return tofeature.ConvertMerged(opts, output)
}

// ToProvisioningOptions configures the feature to provisioning conversion
type ToProvisioningOptions = toprovisioning.ToProvisioningOptions

// ConvertToProvisioning converts feature files into provisioning models.
func ConvertToProvisioning(opts ToProvisioningOptions) (*types.ConversionResult, error) {
	return toprovisioning.ConvertToProvisioning(opts)
}

// GenConfigOptions configures genconfig
type GenConfigOptions = genconfig.GenConfigOptions

// GenConfig renders, and optionally writes, a configuration file.
func GenConfig(opts GenConfigOptions) (*types.GenConfigResult, error) {
	return genconfig.GenConfig(opts)
}

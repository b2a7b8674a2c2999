package config

import (
	"strings"

	"github.com/arthur-debert/modelconv/pkg/convert"
	"github.com/arthur-debert/modelconv/pkg/errors"
)

// Config is the full modelconv configuration
type Config struct {
	Convert ConvertConfig `koanf:"convert" toml:"convert"`
	Maven   MavenConfig   `koanf:"maven" toml:"maven"`
}

// ConvertConfig holds the provisioning to feature conversion options
type ConvertConfig struct {
	GroupID                 string   `koanf:"group_id" toml:"group_id"`
	Version                 string   `koanf:"version" toml:"version"`
	UseProvidedVersion      bool     `koanf:"use_provided_version" toml:"use_provided_version"`
	Name                    string   `koanf:"name" toml:"name"`
	DropVariables           []string `koanf:"drop_variables" toml:"drop_variables"`
	ExcludeBundles          []string `koanf:"exclude_bundles" toml:"exclude_bundles"`
	RunModes                []string `koanf:"run_modes" toml:"run_modes"`
	NoProvisioningModelName bool     `koanf:"no_provisioning_model_name" toml:"no_provisioning_model_name"`
	IncludeModelInfo        bool     `koanf:"include_model_info" toml:"include_model_info"`
	ApplyRunModeOptions     bool     `koanf:"apply_run_mode_options" toml:"apply_run_mode_options"`
	AddFrameworkProperties  []string `koanf:"add_framework_properties" toml:"add_framework_properties"`
}

// MavenConfig locates the local artifact repository
type MavenConfig struct {
	LocalRepository string `koanf:"local_repository" toml:"local_repository"`
}

// FeatureOptions returns the converter options for the provisioning to
// feature direction
func (c *Config) FeatureOptions() convert.Options {
	cc := c.Convert
	return convert.Options{
		GroupID:                 cc.GroupID,
		Version:                 cc.Version,
		UseProvidedVersion:      cc.UseProvidedVersion,
		Name:                    cc.Name,
		DropVariables:           cc.DropVariables,
		ExcludeBundles:          cc.ExcludeBundles,
		AddFrameworkProperties:  frameworkProperties(cc.AddFrameworkProperties),
		RunModes:                cc.RunModes,
		NoProvisioningModelName: cc.NoProvisioningModelName,
	}
}

// ParseFrameworkProperty splits "model:key=value"
func ParseFrameworkProperty(s string) (model, key, value string, err error) {
	model, rest, ok := strings.Cut(s, ":")
	if ok {
		key, value, ok = strings.Cut(rest, "=")
	}
	model, key = strings.TrimSpace(model), strings.TrimSpace(key)
	if !ok || model == "" || key == "" {
		return "", "", "", errors.Newf(errors.ErrConfigValid, "framework property %q is not model:key=value", s)
	}
	return model, key, value, nil
}

// frameworkProperties groups validated entries by model; malformed entries
// are rejected by Validate
func frameworkProperties(entries []string) map[string]map[string]string {
	if len(entries) == 0 {
		return nil
	}
	out := map[string]map[string]string{}
	for _, e := range entries {
		model, key, value, err := ParseFrameworkProperty(e)
		if err != nil {
			continue
		}
		if out[model] == nil {
			out[model] = map[string]string{}
		}
		out[model][key] = value
	}
	return out
}

package provisioning

import (
	"slices"
	"strings"
)

const (
	// RunModeOptionsSetting lists groups of mutually exclusive run modes
	RunModeOptionsSetting = "sling.run.mode.options"
	// RunModeInstallOptionsSetting is the install time variant of RunModeOptionsSetting
	RunModeInstallOptionsSetting = "sling.run.mode.install.options"
)

// AllRunModeNames collects every run mode name used anywhere in the model
func AllRunModeNames(m *Model) []string {
	var names []string
	for _, f := range m.Features {
		for _, rm := range f.RunModes {
			for _, n := range rm.Names {
				if !slices.Contains(names, n) {
					names = append(names, n)
				}
			}
		}
	}
	return names
}

// ActiveRunModes computes the run modes a launcher would activate for the
// comma separated requested list. Option groups declared in the boot
// feature's settings ("a,b|c,d") keep exactly one mode per group: the first
// requested one, or the group's first entry when none was requested.
func ActiveRunModes(m *Model, requested string) []string {
	var modes []string
	if strings.TrimSpace(requested) != "" {
		for _, mode := range strings.Split(requested, ",") {
			mode = strings.TrimSpace(mode)
			if mode != "" && !slices.Contains(modes, mode) {
				modes = append(modes, mode)
			}
		}
	}

	if boot := m.Feature(BootFeature); boot != nil {
		if rm := boot.RunMode(nil); rm != nil {
			for _, key := range []string{RunModeOptionsSetting, RunModeInstallOptionsSetting} {
				if v, ok := rm.Settings.Get(key); ok {
					modes = applyOptions(modes, v)
				}
			}
		}
	}
	return modes
}

func applyOptions(modes []string, options string) []string {
	options = strings.TrimSpace(options)
	if options == "" {
		return modes
	}
	for _, group := range strings.Split(options, "|") {
		candidates := strings.Split(strings.TrimSpace(group), ",")
		selected := ""
		for _, c := range candidates {
			c = strings.TrimSpace(c)
			if selected != "" {
				modes = slices.DeleteFunc(modes, func(m string) bool { return m == c })
				continue
			}
			if slices.Contains(modes, c) {
				selected = c
			}
		}
		if selected == "" {
			first := strings.TrimSpace(candidates[0])
			modes = append(modes, first)
		}
	}
	return modes
}

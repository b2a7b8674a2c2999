package modelconv

import (
	"github.com/arthur-debert/modelconv/pkg/commands"
	"github.com/arthur-debert/modelconv/pkg/types"
	"github.com/spf13/cobra"
)

func newToFeatureCmd(a *app) *cobra.Command {
	var (
		outputDir           string
		mergeInto           string
		groupID             string
		featureVersion      string
		name                string
		useProvidedVersion  bool
		noModelName         bool
		includeModelInfo    bool
		applyRunModeOptions bool
		dropVariables       []string
		frameworkProperties []string
		excludeBundles      []string
		runModes            []string
	)

	cmd := &cobra.Command{
		Use:     "to-feature <model>...",
		Short:   MsgToFeatureShort,
		Long:    MsgToFeatureLong,
		Example: MsgToFeatureExample,
		GroupID: "convert",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := newFlagOverrides(cmd)
			overrides.set("group-id", "convert.group_id", groupID)
			overrides.set("feature-version", "convert.version", featureVersion)
			overrides.set("use-provided-version", "convert.use_provided_version", useProvidedVersion)
			overrides.set("name", "convert.name", name)
			overrides.set("drop-variables", "convert.drop_variables", dropVariables)
			overrides.set("framework-property", "convert.add_framework_properties", frameworkProperties)
			overrides.set("no-provisioning-model-name", "convert.no_provisioning_model_name", noModelName)
			overrides.set("exclude-bundles", "convert.exclude_bundles", excludeBundles)
			overrides.set("run-modes", "convert.run_modes", runModes)
			overrides.set("include-model-info", "convert.include_model_info", includeModelInfo)
			overrides.set("apply-run-mode-options", "convert.apply_run_mode_options", applyRunModeOptions)

			cfg, err := a.loadConfig(overrides.values)
			if err != nil {
				return err
			}
			renderer, err := a.renderer(cmd)
			if err != nil {
				return err
			}

			opts := commands.ToFeatureOptions{
				FS:                  a.fs,
				Inputs:              args,
				OutputDir:           outputDir,
				Resolver:            a.resolver(cfg),
				Convert:             cfg.FeatureOptions(),
				IncludeModelInfo:    cfg.Convert.IncludeModelInfo,
				ApplyRunModeOptions: cfg.Convert.ApplyRunModeOptions,
			}
			var result *types.ConversionResult
			if mergeInto != "" {
				result, err = commands.ConvertMerged(opts, mergeInto)
			} else {
				result, err = commands.ConvertToFeatures(opts)
			}
			if err != nil {
				return err
			}
			return renderer.RenderResult(result)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&outputDir, "output", "o", ".", MsgFlagOutputDir)
	flags.StringVar(&mergeInto, "merge-into", "", MsgFlagMergeInto)
	flags.StringVarP(&groupID, "group-id", "g", "", MsgFlagGroupID)
	flags.StringVar(&featureVersion, "feature-version", "", MsgFlagFeatureVersion)
	flags.BoolVarP(&useProvidedVersion, "use-provided-version", "V", false, MsgFlagUseProvidedVersion)
	flags.StringVarP(&name, "name", "n", "", MsgFlagName)
	flags.StringSliceVarP(&dropVariables, "drop-variables", "d", nil, MsgFlagDropVariables)
	flags.StringArrayVarP(&frameworkProperties, "framework-property", "a", nil, MsgFlagFrameworkProperties)
	flags.BoolVarP(&noModelName, "no-provisioning-model-name", "D", false, MsgFlagNoModelName)
	flags.StringSliceVarP(&excludeBundles, "exclude-bundles", "e", nil, MsgFlagExcludeBundles)
	flags.StringSliceVarP(&runModes, "run-modes", "r", nil, MsgFlagRunModes)
	flags.BoolVar(&includeModelInfo, "include-model-info", false, MsgFlagIncludeModelInfo)
	flags.BoolVar(&applyRunModeOptions, "apply-run-mode-options", false, MsgFlagApplyRunModeOptions)
	return cmd
}

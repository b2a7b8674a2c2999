package modelconv

import (
	"github.com/arthur-debert/modelconv/pkg/commands"
	"github.com/spf13/cobra"
)

func newToProvisioningCmd(a *app) *cobra.Command {
	var (
		outputDir  string
		additional []string
	)

	cmd := &cobra.Command{
		Use:     "to-provisioning <feature>...",
		Short:   MsgToProvisioningShort,
		Long:    MsgToProvisioningLong,
		Example: MsgToProvisioningExample,
		GroupID: "convert",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(nil)
			if err != nil {
				return err
			}
			renderer, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			result, err := commands.ConvertToProvisioning(commands.ToProvisioningOptions{
				FS:         a.fs,
				Inputs:     args,
				OutputDir:  outputDir,
				Additional: additional,
				Resolver:   a.resolver(cfg),
			})
			if err != nil {
				return err
			}
			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", MsgFlagOutputDir)
	cmd.Flags().StringSliceVar(&additional, "additional", nil, MsgFlagAdditional)
	return cmd
}

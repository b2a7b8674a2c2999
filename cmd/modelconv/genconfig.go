package modelconv

import (
	"github.com/arthur-debert/modelconv/pkg/commands"
	"github.com/spf13/cobra"
)

func newGenConfigCmd(a *app) *cobra.Command {
	var write, effective bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := commands.GenConfigOptions{FS: a.fs, Write: write, Dir: a.workDir}
			if effective {
				cfg, err := a.loadConfig(nil)
				if err != nil {
					return err
				}
				opts.Effective = cfg
			}
			renderer, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			result, err := commands.GenConfig(opts)
			if err != nil {
				return err
			}
			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&effective, "effective", false, MsgFlagEffective)
	return cmd
}

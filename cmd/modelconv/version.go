package modelconv

import (
	"fmt"

	"github.com/arthur-debert/modelconv/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return renderer.RenderMessage(fmt.Sprintf(MsgVersionFormat, version.Version, version.Commit, version.Date))
		},
	}
}

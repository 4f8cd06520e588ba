package cli

import (
	"github.com/spf13/cobra"
)

func resolveCmd(g *globalOpts) *cobra.Command {
	var stage string
	var format string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the site configuration for a stage (no build, no cloud calls)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, "pretty", "json", "yaml"); err != nil {
				return err
			}
			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}

			site, err := ws.resolver().Execute(stageArg(ws, stage))
			if err != nil {
				ws.log.Error("resolve.failed", "err", err)
				return err
			}
			return printSite(cmd.OutOrStdout(), site, format)
		},
	}

	cmd.Flags().StringVarP(&stage, "stage", "s", "", "Deployment stage (default: defaults.stage)")
	cmd.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json|yaml")
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/moaiedu/staticsite/internal/usecase"
)

func outputsCmd(g *globalOpts) *cobra.Command {
	var stage string
	var format string

	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "Print staticSiteUrl and staticSiteS3BucketName of a deployed stage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, "pretty", "json"); err != nil {
				return err
			}
			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}
			st := stageArg(ws, stage)

			out, err := usecase.NewSiteOutputs(ws.resolver(), ws.provisioner(st, nil)).Execute(cmd.Context(), st)
			if err != nil {
				return err
			}
			return printOutputs(cmd.OutOrStdout(), out, format)
		},
	}

	cmd.Flags().StringVarP(&stage, "stage", "s", "", "Deployment stage (default: defaults.stage)")
	cmd.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/usecase"
)

func removeCmd(g *globalOpts) *cobra.Command {
	var stage string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Destroy the resources of a stage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}
			st := stageArg(ws, stage)

			uc := usecase.NewRemoveSite(ws.resolver(), ws.provisioner(st, cmd.ErrOrStderr()), ws.log)
			site, err := uc.Execute(cmd.Context(), st)
			if err != nil {
				return err
			}

			th := styles()
			msg := th.Pass.Render("Removed") + " " + string(site.Stage)
			if site.Removal == domain.RemovalRetain {
				msg += " " + th.Subtitle.Render("(bucket and objects retained)")
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&stage, "stage", "s", "", "Deployment stage (default: defaults.stage)")
	return cmd
}

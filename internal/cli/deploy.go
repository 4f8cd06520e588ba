package cli

import (
	"github.com/spf13/cobra"

	"github.com/moaiedu/staticsite/internal/usecase"
)

func deployCmd(g *globalOpts) *cobra.Command {
	var stage string
	var skipBuild bool
	var noSave bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Build the site and provision it for a stage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}
			st := stageArg(ws, stage)

			opts := []usecase.DeployOption{usecase.WithLogger(ws.log)}
			if !noSave {
				opts = append(opts, usecase.WithStore(ws.store))
			}

			uc := usecase.NewDeploySite(
				ws.resolver(),
				ws.builder(st, cmd.ErrOrStderr(), cmd.ErrOrStderr()),
				ws.provisioner(st, cmd.ErrOrStderr()),
				opts...,
			)

			res, err := uc.Execute(cmd.Context(), st, usecase.DeployOptions{SkipBuild: skipBuild})
			if err != nil {
				return err
			}
			return printDeploy(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&stage, "stage", "s", "", "Deployment stage (default: defaults.stage)")
	cmd.Flags().BoolVar(&skipBuild, "skip-build", false, "Upload the existing build output without running the build command")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not record the deployment under the deployments dir")
	return cmd
}

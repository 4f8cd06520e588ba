package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/moaiedu/staticsite/internal/infra/fsworkspace"
	"github.com/moaiedu/staticsite/internal/usecase"
)

func initCmd() *cobra.Command {
	var force bool
	var name string

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold staticsite.yaml and per-stage env files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			root, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("invalid directory: %w", err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(root, name, force); err != nil {
				return err
			}

			th := styles()
			fmt.Fprintln(cmd.OutOrStdout(), th.Pass.Render("Initialized")+" "+root)
			fmt.Fprintln(cmd.OutOrStdout(), th.Subtitle.Render("Edit env/<stage>.yaml, then run `staticsite deploy --stage dev`."))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().StringVar(&name, "name", "", "App name written to staticsite.yaml")
	return cmd
}

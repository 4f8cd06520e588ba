package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func envsCmd(g *globalOpts) *cobra.Command {
	c := &cobra.Command{
		Use:   "envs",
		Short: "Inspect per-stage env files in a workspace",
	}

	c.AddCommand(envsListCmd(g))
	return c
}

func envsListCmd(g *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stages that have an env file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}

			refs, err := ws.envCatalog.ListEnvironments(ws.root)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintln(w, "(no env files found; stages still read the process environment)")
				return nil
			}

			fmt.Fprintf(w, "Workspace: %s\n", ws.root)
			fmt.Fprintf(w, "Default:   %s\n\n", ws.cfg.Defaults.Stage)

			for _, r := range refs {
				rel, _ := filepath.Rel(ws.root, r.Path)
				fmt.Fprintf(w, "- %s  (%s)\n", r.Name, rel)
			}
			return nil
		},
	}
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/moaiedu/staticsite/internal/infra/logger"
	"github.com/moaiedu/staticsite/internal/ui/tui"
)

// globalOpts are the persistent flags shared by every command.
type globalOpts struct {
	debug     bool
	workspace string
}

func Execute() {
	// Interrupts cancel the context so Pulumi can stop cleanly between steps.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		logger.L().Error("command.failed", "err", err.Error())
		fmt.Fprintln(os.Stderr, styles().Fail.Render("error:")+" "+userMessage(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}
	var cleanup func() error

	cmd := &cobra.Command{
		Use:           "staticsite",
		Short:         "Deploy a static website to S3 and CloudFront, one stage at a time",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Without a subcommand, open the interactive stage browser.
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(opts.workspace)
			if err != nil {
				return err
			}
			return tui.Run(tui.Deps{
				Root:         ws.root,
				DefaultStage: ws.cfg.Defaults.Stage,
				Catalog:      ws.envCatalog,
				Resolver:     ws.resolver(),
				Store:        ws.store,
				ErrorText:    userMessage,
				Logger:       ws.log,
			})
		},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			c, err := logger.Setup(logger.Config{
				Root:   logRoot(opts.workspace),
				Debug:  opts.debug,
				Stderr: opts.debug,
			})
			if err == nil {
				cleanup = c
			}
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if cleanup != nil {
				return cleanup()
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "verbose logging to .staticsite/logs/staticsite.log (warnings mirrored to stderr)")
	cmd.PersistentFlags().StringVarP(&opts.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")

	cmd.AddCommand(
		initCmd(),
		resolveCmd(opts),
		deployCmd(opts),
		removeCmd(opts),
		outputsCmd(opts),
		verifyCmd(opts),
		envsCmd(opts),
		versionCmd(),
	)
	return cmd
}

// logRoot picks the directory that holds .staticsite/logs: the workspace when
// one can be found, otherwise the working directory.
func logRoot(workspaceFlag string) string {
	if root, err := resolveWorkspaceRoot(workspaceFlag); err == nil {
		return root
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

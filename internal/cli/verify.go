package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moaiedu/staticsite/internal/usecase"
)

func verifyCmd(g *globalOpts) *cobra.Command {
	var stage string
	var format string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Probe a deployed stage: the site answers 2xx and redirect hostnames redirect",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, "pretty", "json"); err != nil {
				return err
			}
			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}
			st := stageArg(ws, stage)

			uc := usecase.NewVerifySite(ws.resolver(), ws.store, ws.provisioner(st, nil), ws.prober)
			report, err := uc.Execute(cmd.Context(), st)
			if err != nil {
				return err
			}
			if err := printReport(cmd.OutOrStdout(), report, format); err != nil {
				return err
			}

			if n := report.Failed(); n > 0 {
				ws.log.Warn("verify.failed", "stage", string(st), "failed", n)
				return fmt.Errorf("verify failed (%d failed probe(s))", n)
			}
			ws.log.Info("verify.passed", "stage", string(st), "probes", len(report.Results))
			return nil
		},
	}

	cmd.Flags().StringVarP(&stage, "stage", "s", "", "Deployment stage (default: defaults.stage)")
	cmd.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return cmd
}

package usecase

import (
	"context"
	"fmt"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/ports"
)

// VerifySite probes a deployed stage over HTTP. Outputs come from the last
// deployment record when there is one, otherwise from the provisioner.
type VerifySite struct {
	resolve *ResolveSite
	store   ports.DeploymentStore // optional
	prov    ports.Provisioner
	prober  ports.SiteProber
}

func NewVerifySite(resolve *ResolveSite, store ports.DeploymentStore, p ports.Provisioner, prober ports.SiteProber) *VerifySite {
	return &VerifySite{resolve: resolve, store: store, prov: p, prober: prober}
}

type VerifyReport struct {
	Stage   domain.Stage         `json:"stage"`
	Outputs domain.SiteOutputs   `json:"outputs"`
	Results []domain.ProbeResult `json:"results"`
}

// Failed counts probes that did not pass.
func (r VerifyReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed {
			n++
		}
	}
	return n
}

func (uc *VerifySite) Execute(ctx context.Context, stage domain.Stage) (VerifyReport, error) {
	site, err := uc.resolve.Execute(stage)
	if err != nil {
		return VerifyReport{}, err
	}

	out, err := uc.outputs(ctx, site)
	if err != nil {
		return VerifyReport{}, err
	}

	plan := domain.ProbePlan(out, site.Domain)
	if len(plan) == 0 {
		return VerifyReport{}, &domain.OpError{
			Op:   "usecase.verify",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("stage %s has no site url: %w", site.Stage, domain.ErrNotFound),
		}
	}

	report := VerifyReport{Stage: site.Stage, Outputs: out, Results: make([]domain.ProbeResult, 0, len(plan))}
	for _, spec := range plan {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Results = append(report.Results, uc.prober.Probe(ctx, spec))
	}
	return report, nil
}

func (uc *VerifySite) outputs(ctx context.Context, site domain.SiteConfig) (domain.SiteOutputs, error) {
	if uc.store != nil {
		d, err := uc.store.LatestDeployment(site.Stage)
		switch {
		case err == nil && d.Outputs.URL != "":
			return d.Outputs, nil
		case err != nil && !domain.IsKind(err, domain.KindNotFound):
			return domain.SiteOutputs{}, err
		}
	}
	return uc.prov.Outputs(ctx, site)
}

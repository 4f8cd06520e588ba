package usecase

import (
	"context"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/ports"
)

// SiteOutputs reads the outputs of the last successful provisioning of a stage.
type SiteOutputs struct {
	resolve *ResolveSite
	prov    ports.Provisioner
}

func NewSiteOutputs(resolve *ResolveSite, p ports.Provisioner) *SiteOutputs {
	return &SiteOutputs{resolve: resolve, prov: p}
}

func (uc *SiteOutputs) Execute(ctx context.Context, stage domain.Stage) (domain.SiteOutputs, error) {
	site, err := uc.resolve.Execute(stage)
	if err != nil {
		return domain.SiteOutputs{}, err
	}
	return uc.prov.Outputs(ctx, site)
}

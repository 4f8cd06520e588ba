package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/ports"
)

// RemoveSite destroys the resources of one stage.
type RemoveSite struct {
	resolve *ResolveSite
	prov    ports.Provisioner
	log     *slog.Logger
}

func NewRemoveSite(resolve *ResolveSite, p ports.Provisioner, log *slog.Logger) *RemoveSite {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &RemoveSite{resolve: resolve, prov: p, log: log}
}

func (uc *RemoveSite) Execute(ctx context.Context, stage domain.Stage) (domain.SiteConfig, error) {
	site, err := uc.resolve.Execute(stage)
	if err != nil {
		return domain.SiteConfig{}, err
	}

	uc.log.Info("remove.started", "app", site.App, "stage", string(site.Stage), "removal", string(site.Removal))
	if err := uc.prov.Destroy(ctx, site); err != nil {
		uc.log.Error("remove.failed", "stage", string(site.Stage), "err", err)
		return site, err
	}
	uc.log.Info("remove.finished", "stage", string(site.Stage))
	return site, nil
}

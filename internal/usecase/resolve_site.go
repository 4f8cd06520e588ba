package usecase

import (
	"strings"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/ports"
)

// ResolveSite turns a stage into the site configuration handed to the
// provisioner. It performs no build and no cloud calls.
type ResolveSite struct {
	cfg  domain.Config
	envs ports.EnvironmentLoader
}

func NewResolveSite(cfg domain.Config, envs ports.EnvironmentLoader) *ResolveSite {
	return &ResolveSite{cfg: cfg, envs: envs}
}

func (uc *ResolveSite) Execute(stage domain.Stage) (domain.SiteConfig, error) {
	stage = domain.Stage(strings.TrimSpace(string(stage)))
	if stage == "" {
		return domain.SiteConfig{}, &domain.OpError{
			Op:   "usecase.resolve",
			Kind: domain.KindConfiguration,
			Err:  &domain.ConfigurationError{Input: "stage"},
		}
	}
	if err := stage.Validate(); err != nil {
		return domain.SiteConfig{}, err
	}

	env, err := uc.envs.LoadEnvironment(stage)
	if err != nil {
		return domain.SiteConfig{}, err
	}

	withDomain := uc.cfg.Domain.Enabled
	envCfg, err := domain.ReadEnvironmentConfig(env, uc.cfg.Env, withDomain)
	if err != nil {
		return domain.SiteConfig{}, err
	}

	var dc *domain.DomainConfig
	if withDomain {
		resolved, err := domain.ResolveDomain(stage, envCfg)
		if err != nil {
			return domain.SiteConfig{}, err
		}
		dc = &resolved
	}

	return domain.NewSiteConfig(uc.cfg, stage, envCfg, dc)
}

package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/ports"
)

// DeploySite runs resolve, build and provision in order. Any failure stops the run.
type DeploySite struct {
	resolve *ResolveSite
	builder ports.Builder
	prov    ports.Provisioner
	store   ports.DeploymentStore // optional
	log     *slog.Logger
	now     func() time.Time
}

type DeployOption func(*DeploySite)

// WithStore records successful deployments. A nil store disables recording.
func WithStore(s ports.DeploymentStore) DeployOption {
	return func(uc *DeploySite) { uc.store = s }
}

func WithLogger(l *slog.Logger) DeployOption {
	return func(uc *DeploySite) {
		if l != nil {
			uc.log = l
		}
	}
}

// WithClock is useful for tests.
func WithClock(now func() time.Time) DeployOption {
	return func(uc *DeploySite) { uc.now = now }
}

func NewDeploySite(resolve *ResolveSite, b ports.Builder, p ports.Provisioner, opts ...DeployOption) *DeploySite {
	uc := &DeploySite{
		resolve: resolve,
		builder: b,
		prov:    p,
		log:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type DeployOptions struct {
	SkipBuild bool
}

type DeployResult struct {
	Site       domain.SiteConfig
	Deployment domain.Deployment
	// RecordID is empty when no store is configured or saving failed.
	RecordID string
}

func (uc *DeploySite) Execute(ctx context.Context, stage domain.Stage, opts DeployOptions) (DeployResult, error) {
	started := uc.now()

	site, err := uc.resolve.Execute(stage)
	if err != nil {
		uc.log.Error("deploy.resolve.failed", "stage", string(stage), "err", err)
		return DeployResult{}, err
	}
	log := uc.log.With("app", site.App, "stage", string(site.Stage))
	if site.Domain != nil {
		log.Info("deploy.resolved", "kind", string(site.Domain.Kind), "hostname", site.Domain.Primary(), "redirects", site.Domain.Redirects)
	} else {
		log.Info("deploy.resolved", "hostname", "")
	}

	res := DeployResult{
		Site: site,
		Deployment: domain.Deployment{
			App:       site.App,
			Stage:     site.Stage,
			Region:    site.Region,
			Domain:    site.Domain,
			StartedAt: started,
		},
	}

	// Skipping the build still checks the artifact directory: an empty
	// command makes the builder only inspect the existing output.
	spec := site.Build
	if opts.SkipBuild {
		spec.Command = ""
		log.Info("deploy.build.skipped", "output", spec.Output)
	} else {
		log.Info("deploy.build.started", "command", spec.Command)
	}
	br, err := uc.builder.Build(ctx, spec)
	if err != nil {
		log.Error("deploy.build.failed", "err", err)
		return res, err
	}
	log.Info("deploy.build.finished", "files", br.Files, "duration_ms", br.Duration.Milliseconds())
	res.Deployment.Build = &br

	log.Info("deploy.provision.started", "region", site.Region)
	out, err := uc.prov.Up(ctx, site)
	if err != nil {
		log.Error("deploy.provision.failed", "err", err)
		return res, err
	}
	log.Info("deploy.provision.finished", "url", out.URL, "bucket", out.BucketName)

	res.Deployment.Outputs = out
	res.Deployment.EndedAt = uc.now()

	if uc.store != nil {
		id, err := uc.store.SaveDeployment(res.Deployment)
		if err != nil {
			// Resources are live already; a missing record is not a failed deploy.
			log.Warn("deploy.record.failed", "err", err)
		} else {
			res.RecordID = id
			res.Deployment.ID = id
		}
	}
	return res, nil
}

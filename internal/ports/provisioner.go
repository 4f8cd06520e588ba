package ports

import (
	"context"

	"github.com/moaiedu/staticsite/internal/domain"
)

// Provisioner turns a site configuration into live cloud resources.
// Every call is a single blocking step; failures are not retried here.
type Provisioner interface {
	Up(ctx context.Context, site domain.SiteConfig) (domain.SiteOutputs, error)
	Destroy(ctx context.Context, site domain.SiteConfig) error
	Outputs(ctx context.Context, site domain.SiteConfig) (domain.SiteOutputs, error)
}

package ports

import (
	"context"

	"github.com/moaiedu/staticsite/internal/domain"
)

// SiteProber executes a single HTTP check against a deployed site.
type SiteProber interface {
	Probe(ctx context.Context, spec domain.ProbeSpec) domain.ProbeResult
}

package ports

import (
	"context"

	"github.com/moaiedu/staticsite/internal/domain"
)

// Builder runs the build command and checks that it produced the artifact directory.
type Builder interface {
	Build(ctx context.Context, spec domain.BuildSpec) (domain.BuildResult, error)
}

package tui

import (
	"log/slog"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/ports"
)

// StageResolver resolves a stage without building or provisioning.
type StageResolver interface {
	Execute(stage domain.Stage) (domain.SiteConfig, error)
}

type Deps struct {
	Root         string
	DefaultStage string

	Catalog  ports.EnvironmentCatalog
	Resolver StageResolver
	Store    ports.DeploymentStore // optional

	// ErrorText turns an error into a one-line message.
	ErrorText func(error) string

	Logger *slog.Logger
}

package ports

import "github.com/moaiedu/staticsite/internal/domain"

// EnvironmentLoader loads the variables visible to a stage (env files, process environment).
type EnvironmentLoader interface {
	LoadEnvironment(stage domain.Stage) (domain.Environment, error)
}

package ports

import "github.com/moaiedu/staticsite/internal/domain"

// DeploymentStore persists deployment records.
type DeploymentStore interface {
	SaveDeployment(d domain.Deployment) (id string, err error)
	LatestDeployment(stage domain.Stage) (domain.Deployment, error)
}

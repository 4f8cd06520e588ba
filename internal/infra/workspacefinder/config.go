package workspacefinder

import (
	"path/filepath"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/infra/config"
)

// LoadConfig loads staticsite.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	return config.LoadConfig(filepath.Join(root, config.FileName))
}

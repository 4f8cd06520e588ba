package config

import (
	"os"

	"github.com/moaiedu/staticsite/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the project file that marks a workspace root.
const FileName = "staticsite.yaml"

func LoadConfig(path string) (domain.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLConfig
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapConfig(path, dto)
}

func LoadEnvironment(path string) (domain.Environment, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Environment{}, &domain.OpError{
			Op:   "config.load_environment",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLEnvironment
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.Environment{}, &domain.OpError{
			Op:   "config.load_environment",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapEnvironment(path, dto)
}

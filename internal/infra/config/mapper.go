package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/moaiedu/staticsite/internal/domain"
)

// MapConfig applies the parsed file on top of domain.DefaultConfig and validates the result.
func MapConfig(path string, yc YAMLConfig) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	if v := strings.TrimSpace(yc.App.Name); v != "" {
		cfg.App.Name = v
	}
	if v := strings.TrimSpace(yc.App.Removal); v != "" {
		removal, err := parseRemoval(v)
		if err != nil {
			return domain.Config{}, invalidField(path, "app.removal", err.Error())
		}
		cfg.App.Removal = removal
	}

	if v := strings.TrimSpace(yc.Defaults.Stage); v != "" {
		cfg.Defaults.Stage = v
	}

	if v := strings.TrimSpace(yc.Site.ErrorPage); v != "" {
		cfg.Site.ErrorPage = v
	}
	if yc.Site.Assets.Routes != nil {
		routes := make([]string, 0, len(*yc.Site.Assets.Routes))
		for i, r := range *yc.Site.Assets.Routes {
			r = strings.Trim(strings.TrimSpace(r), "/")
			if r == "" {
				return domain.Config{}, invalidField(path, fmt.Sprintf("site.assets.routes[%d]", i), "route is empty")
			}
			if strings.ContainsAny(r, "*?") {
				return domain.Config{}, invalidField(path, fmt.Sprintf("site.assets.routes[%d]", i), "route must be a plain path prefix")
			}
			routes = append(routes, r)
		}
		cfg.Site.Assets.Routes = routes
	}
	if v := strings.TrimSpace(yc.Site.Build.Command); v != "" {
		cfg.Site.Build.Command = v
	}
	if v := strings.TrimSpace(yc.Site.Build.Output); v != "" {
		cfg.Site.Build.Output = v
	}

	if yc.Domain.Enabled != nil {
		cfg.Domain.Enabled = *yc.Domain.Enabled
	}

	if v := strings.TrimSpace(yc.Env.Domain); v != "" {
		cfg.Env.Domain = v
	}
	if v := strings.TrimSpace(yc.Env.ApexSubdomain); v != "" {
		cfg.Env.ApexSubdomain = v
	}
	if v := strings.TrimSpace(yc.Env.Region); v != "" {
		cfg.Env.Region = v
	}

	if v := strings.TrimSpace(yc.Paths.EnvironmentsDir); v != "" {
		cfg.Paths.EnvironmentsDir = v
	}
	if v := strings.TrimSpace(yc.Paths.DeploymentsDir); v != "" {
		cfg.Paths.DeploymentsDir = v
	}

	if filepath.IsAbs(cfg.Site.Build.Output) {
		return domain.Config{}, invalidField(path, "site.build.output", "must be relative to the workspace root")
	}

	return cfg, nil
}

func MapEnvironment(path string, env YAMLEnvironment) (domain.Environment, error) {
	if env.Vars == nil {
		env.Vars = map[string]string{}
	}
	return domain.Environment{
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Vars: domain.Vars(env.Vars),
	}, nil
}

func parseRemoval(v string) (domain.RemovalPolicy, error) {
	switch domain.RemovalPolicy(strings.ToLower(v)) {
	case domain.RemovalRemove:
		return domain.RemovalRemove, nil
	case domain.RemovalRetain:
		return domain.RemovalRetain, nil
	default:
		return "", fmt.Errorf("unsupported removal policy %q (expected remove|retain)", v)
	}
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}

package domain

import (
	"fmt"
	"path"
	"strings"
)

// BuildSpec is the shell command that produces the artifact directory, and
// that directory's path relative to the workspace root.
type BuildSpec struct {
	Command string `json:"command" yaml:"command"`
	Output  string `json:"output" yaml:"output"`
}

// AssetRoutingSpec lists path prefixes served as asset/upload traffic rather
// than page traffic. Order is preserved.
type AssetRoutingSpec struct {
	Routes []string `json:"routes" yaml:"routes"`
}

// IsAssetPath reports whether key (an object key or URL path) falls under one of the routes.
func (a AssetRoutingSpec) IsAssetPath(key string) bool {
	k := strings.TrimPrefix(key, "/")
	for _, r := range a.Routes {
		r = strings.Trim(r, "/")
		if r == "" {
			continue
		}
		if k == r || strings.HasPrefix(k, r+"/") {
			return true
		}
	}
	return false
}

// SiteConfig is the configuration object handed to the provisioner.
type SiteConfig struct {
	App       string           `json:"app" yaml:"app"`
	Stage     Stage            `json:"stage" yaml:"stage"`
	Region    string           `json:"region" yaml:"region"`
	Domain    *DomainConfig    `json:"domain,omitempty" yaml:"domain,omitempty"`
	ErrorPage string           `json:"errorPage" yaml:"errorPage"`
	Assets    AssetRoutingSpec `json:"assets" yaml:"assets"`
	Build     BuildSpec        `json:"build" yaml:"build"`
	Removal   RemovalPolicy    `json:"removal" yaml:"removal"`

	// HostedZone is the DNS zone that owns every hostname in Domain.
	HostedZone string `json:"hostedZone,omitempty" yaml:"hostedZone,omitempty"`
}

// NewSiteConfig assembles the provisioner configuration for one stage.
// domainCfg may be nil when the domain policy is disabled.
func NewSiteConfig(cfg Config, stage Stage, env EnvironmentConfig, domainCfg *DomainConfig) (SiteConfig, error) {
	const op = "domain.site"

	if strings.TrimSpace(env.Region) == "" {
		return SiteConfig{}, missingInput(op, "region")
	}

	routes := make([]string, 0, len(cfg.Site.Assets.Routes))
	for _, r := range cfg.Site.Assets.Routes {
		r = strings.Trim(strings.TrimSpace(r), "/")
		if r == "" {
			continue
		}
		routes = append(routes, r)
	}

	sc := SiteConfig{
		App:       cfg.App.Name,
		Stage:     stage,
		Region:    env.Region,
		ErrorPage: strings.TrimPrefix(cfg.Site.ErrorPage, "/"),
		Assets:    AssetRoutingSpec{Routes: routes},
		Build:     cfg.Site.Build,
		Removal:   cfg.App.Removal,
	}

	if domainCfg != nil {
		if err := domainCfg.Validate(); err != nil {
			return SiteConfig{}, &OpError{Op: op, Kind: KindInvalidConfig, Err: err}
		}
		d := *domainCfg
		d.Redirects = append([]string(nil), domainCfg.Redirects...)
		sc.Domain = &d
		sc.HostedZone = env.BaseDomain
	}

	if err := sc.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return sc, nil
}

// Validate checks the fields the provisioner relies on.
func (s SiteConfig) Validate() error {
	const op = "domain.site.validate"

	if strings.TrimSpace(s.App) == "" {
		return invalidField(op, "app.name", "is required")
	}
	if strings.TrimSpace(string(s.Stage)) == "" {
		return missingInput(op, "stage")
	}
	if strings.TrimSpace(s.ErrorPage) == "" {
		return invalidField(op, "site.error_page", "is required")
	}
	if strings.TrimSpace(s.Build.Output) == "" {
		return invalidField(op, "site.build.output", "is required")
	}
	if out := path.Clean(strings.ReplaceAll(s.Build.Output, "\\", "/")); out == "." || out == ".." || strings.HasPrefix(out, "../") || path.IsAbs(out) {
		return invalidField(op, "site.build.output", fmt.Sprintf("must be a directory inside the workspace, got %q", s.Build.Output))
	}
	switch s.Removal {
	case RemovalRemove, RemovalRetain:
	default:
		return invalidField(op, "app.removal", fmt.Sprintf("unsupported value %q (expected remove|retain)", s.Removal))
	}
	return nil
}

func invalidField(op, field, msg string) error {
	return &OpError{
		Op:   op,
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, ErrInvalidConfig),
	}
}

package domain

// Config represents the project configuration loaded from staticsite.yaml.
type Config struct {
	App      AppConfig
	Defaults DefaultsConfig
	Site     SiteSettings
	Domain   DomainPolicy
	Env      EnvNames
	Paths    PathsConfig
}

// RemovalPolicy controls what happens to stateful resources when a stage is removed.
type RemovalPolicy string

const (
	RemovalRemove RemovalPolicy = "remove"
	RemovalRetain RemovalPolicy = "retain"
)

type AppConfig struct {
	Name    string
	Removal RemovalPolicy
}

type DefaultsConfig struct {
	Stage string
}

// SiteSettings are the static parts of the site configuration object.
type SiteSettings struct {
	ErrorPage string
	Assets    AssetRoutingSpec
	Build     BuildSpec
}

// DomainPolicy switches custom-domain resolution on or off.
type DomainPolicy struct {
	Enabled bool
}

type PathsConfig struct {
	EnvironmentsDir string
	DeploymentsDir  string
}

// DefaultConfig provides sane defaults if staticsite.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		App: AppConfig{
			Name:    "MoaiEdu-StaticSite",
			Removal: RemovalRemove,
		},
		Defaults: DefaultsConfig{
			Stage: "dev",
		},
		Site: SiteSettings{
			ErrorPage: "404.html",
			Assets:    AssetRoutingSpec{Routes: []string{"uploads"}},
			Build: BuildSpec{
				Command: "make all",
				Output:  "public",
			},
		},
		Domain: DomainPolicy{Enabled: true},
		Env:    DefaultEnvNames(),
		Paths: PathsConfig{
			EnvironmentsDir: "env",
			DeploymentsDir:  ".staticsite/deployments",
		},
	}
}

package config

// YAMLConfig mirrors staticsite.yaml. Pointers and empty strings mean "not set".
type YAMLConfig struct {
	App      YAMLApp      `yaml:"app"`
	Defaults YAMLDefaults `yaml:"defaults"`
	Site     YAMLSite     `yaml:"site"`
	Domain   YAMLDomain   `yaml:"domain"`
	Env      YAMLEnvNames `yaml:"env"`
	Paths    YAMLPaths    `yaml:"paths"`
}

type YAMLApp struct {
	Name    string `yaml:"name"`
	Removal string `yaml:"removal"`
}

type YAMLDefaults struct {
	Stage string `yaml:"stage"`
}

type YAMLSite struct {
	ErrorPage string     `yaml:"error_page"`
	Assets    YAMLAssets `yaml:"assets"`
	Build     YAMLBuild  `yaml:"build"`
}

type YAMLAssets struct {
	// nil keeps the default routes; an explicit empty list disables asset routing.
	Routes *[]string `yaml:"routes"`
}

type YAMLBuild struct {
	Command string `yaml:"command"`
	Output  string `yaml:"output"`
}

type YAMLDomain struct {
	Enabled *bool `yaml:"enabled"`
}

type YAMLEnvNames struct {
	Domain        string `yaml:"domain"`
	ApexSubdomain string `yaml:"apex_subdomain"`
	Region        string `yaml:"region"`
}

type YAMLPaths struct {
	EnvironmentsDir string `yaml:"environments_dir"`
	DeploymentsDir  string `yaml:"deployments_dir"`
}

type YAMLEnvironment struct {
	Vars map[string]string `yaml:"vars"`
}

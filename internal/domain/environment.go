package domain

import "strings"

// Vars is a key/value store of environment variables.
type Vars map[string]string

// Environment holds the variables visible to one stage, after file and
// process sources have been layered by an infrastructure loader.
type Environment struct {
	Name string
	Vars Vars
}

// Get returns a value for the given key and a boolean indicating if it exists.
func Get(vars Vars, key string) (string, bool) {
	if vars == nil {
		return "", false
	}
	val, ok := vars[key]
	return val, ok
}

// Set sets a key/value in the map, initializing it if needed.
func Set(vars Vars, key, value string) Vars {
	if vars == nil {
		vars = Vars{}
	}
	vars[key] = value
	return vars
}

// Merge merges base and override vars (override wins) and returns a new map.
func Merge(base Vars, override Vars) Vars {
	out := Vars{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// EnvNames maps each environment input to the variable that supplies it.
type EnvNames struct {
	Domain        string
	ApexSubdomain string
	Region        string
}

// DefaultEnvNames returns the variable names used when staticsite.yaml does not override them.
func DefaultEnvNames() EnvNames {
	return EnvNames{
		Domain:        "DOMAIN",
		ApexSubdomain: "APEX_SUBDOMAIN",
		Region:        "AWS_REGION",
	}
}

// EnvironmentConfig is the set of external string inputs of one deployment.
type EnvironmentConfig struct {
	BaseDomain    string
	ApexSubdomain string
	Region        string
}

// ReadEnvironmentConfig extracts the inputs named by names from env.
// Region is always required. Domain inputs are required only when
// withDomain is set; the first missing input is reported by variable name.
func ReadEnvironmentConfig(env Environment, names EnvNames, withDomain bool) (EnvironmentConfig, error) {
	const op = "domain.environment"

	var cfg EnvironmentConfig

	region, ok := lookupNonEmpty(env.Vars, names.Region)
	if !ok {
		return EnvironmentConfig{}, missingInput(op, names.Region)
	}
	cfg.Region = region

	if !withDomain {
		return cfg, nil
	}

	base, ok := lookupNonEmpty(env.Vars, names.Domain)
	if !ok {
		return EnvironmentConfig{}, missingInput(op, names.Domain)
	}
	sub, ok := lookupNonEmpty(env.Vars, names.ApexSubdomain)
	if !ok {
		return EnvironmentConfig{}, missingInput(op, names.ApexSubdomain)
	}

	cfg.BaseDomain = base
	cfg.ApexSubdomain = sub
	return cfg, nil
}

func lookupNonEmpty(vars Vars, key string) (string, bool) {
	if strings.TrimSpace(key) == "" {
		return "", false
	}
	v, ok := Get(vars, key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

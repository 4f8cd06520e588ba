package domain

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

// ResolveDomain computes the domain configuration for stage.
//
// The prod stage is served from the base domain with the apex-subdomain
// hostname redirected to it. Every other stage gets its own hostname,
// "<stage>-<apex-subdomain>.<base-domain>", so concurrently deployed stages
// never collide. ResolveDomain is a pure function of its arguments.
func ResolveDomain(stage Stage, env EnvironmentConfig) (DomainConfig, error) {
	const op = "domain.resolve"

	s := strings.TrimSpace(string(stage))
	base := strings.TrimSpace(env.BaseDomain)
	sub := strings.TrimSpace(env.ApexSubdomain)

	switch {
	case s == "":
		return DomainConfig{}, missingInput(op, "stage")
	case base == "":
		return DomainConfig{}, missingInput(op, "base_domain")
	case sub == "":
		return DomainConfig{}, missingInput(op, "apex_subdomain")
	}

	if errs := validation.IsDNS1123Label(s); len(errs) > 0 {
		return DomainConfig{}, invalidName(op, "stage", s, errs)
	}

	var out DomainConfig
	var label string
	if Stage(s).IsProd() {
		label = sub
		out = DomainConfig{
			Kind:      DomainApex,
			Name:      base,
			Redirects: []string{sub + "." + base},
		}
	} else {
		label = s + "-" + sub
		out = DomainConfig{
			Kind: DomainSubdomain,
			Name: label + "." + base,
		}
	}

	if errs := validation.IsDNS1123Label(label); len(errs) > 0 {
		return DomainConfig{}, invalidName(op, "hostname label", label, errs)
	}
	for _, h := range out.Hostnames() {
		if errs := validation.IsDNS1123Subdomain(h); len(errs) > 0 {
			return DomainConfig{}, invalidName(op, "hostname", h, errs)
		}
	}

	return out, nil
}

func invalidName(op, what, value string, errs []string) error {
	return &OpError{
		Op:   op,
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("%s %q: %s: %w", what, value, strings.Join(errs, "; "), ErrInvalidConfig),
	}
}

package domain

import "fmt"

// DomainKind discriminates the two DomainConfig shapes.
type DomainKind string

const (
	// DomainApex serves the site from the bare base domain and redirects
	// the apex-subdomain hostname to it.
	DomainApex DomainKind = "apex"
	// DomainSubdomain serves the site from a single stage-qualified hostname.
	DomainSubdomain DomainKind = "subdomain"
)

// DomainConfig is the output of domain resolution.
//
// For DomainApex, Name is the base domain and Redirects holds exactly one hostname.
// For DomainSubdomain, Name is the full hostname and Redirects is empty.
type DomainConfig struct {
	Kind      DomainKind `json:"kind" yaml:"kind"`
	Name      string     `json:"name" yaml:"name"`
	Redirects []string   `json:"redirects,omitempty" yaml:"redirects,omitempty"`
}

// Primary is the hostname the site is served from.
func (d DomainConfig) Primary() string { return d.Name }

// Hostnames lists the primary hostname followed by any redirect hostnames.
func (d DomainConfig) Hostnames() []string {
	out := make([]string, 0, 1+len(d.Redirects))
	out = append(out, d.Name)
	return append(out, d.Redirects...)
}

// Validate checks the shape invariants of d.
func (d DomainConfig) Validate() error {
	switch d.Kind {
	case DomainApex:
		if d.Name == "" || len(d.Redirects) != 1 || d.Redirects[0] == "" {
			return fmt.Errorf("apex domain needs a name and exactly one redirect: %w", ErrInvalidConfig)
		}
	case DomainSubdomain:
		if d.Name == "" || len(d.Redirects) != 0 {
			return fmt.Errorf("subdomain needs a hostname and no redirects: %w", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("unknown domain kind %q: %w", d.Kind, ErrInvalidConfig)
	}
	return nil
}

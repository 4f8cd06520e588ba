// Package domain contains the core model for staticsite deployments.
//
// The domain is transport- and persistence-agnostic: it does not depend on YAML parsing,
// the filesystem, the process environment or Pulumi. Infra/adapters map into/from these types.
package domain

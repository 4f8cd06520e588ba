package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid config")
	ErrMissingInput  = errors.New("missing required input")
	ErrBuild         = errors.New("build failed")
	ErrProvisioning  = errors.New("provisioning failed")
	ErrExecution     = errors.New("execution error")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindInvalidConfig ErrorKind = "invalid_config"
	KindConfiguration ErrorKind = "configuration"
	KindBuild         ErrorKind = "build"
	KindProvisioning  ErrorKind = "provisioning"
	KindExecution     ErrorKind = "execution"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// ConfigurationError reports a required input that was missing or empty.
// Input is the operator-facing name of the input (usually an environment variable).
type ConfigurationError struct {
	Input string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("missing required input %s", e.Input)
}

func (e *ConfigurationError) Unwrap() error { return ErrMissingInput }

func missingInput(op, input string) error {
	return &OpError{
		Op:   op,
		Kind: KindConfiguration,
		Err:  &ConfigurationError{Input: input},
	}
}

// MissingInput extracts the name of the missing input from err, if any.
func MissingInput(err error) (string, bool) {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return ce.Input, true
	}
	return "", false
}

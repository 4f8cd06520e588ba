package domain

import "k8s.io/apimachinery/pkg/util/validation"

// Stage names a deployment environment (e.g. "dev", "pr-42", "prod").
type Stage string

// ProdStage is the only stage with special domain handling.
const ProdStage Stage = "prod"

func (s Stage) IsProd() bool { return s == ProdStage }

func (s Stage) String() string { return string(s) }

// Validate reports whether s is usable as a hostname label. Stage names also
// pick env files and stack names, so this runs before either is touched.
func (s Stage) Validate() error {
	if errs := validation.IsDNS1123Label(string(s)); len(errs) > 0 {
		return invalidName("stage.validate", "stage", string(s), errs)
	}
	return nil
}

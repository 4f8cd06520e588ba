package cli

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/moaiedu/staticsite/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// userMessage maps an error to the one-line message shown to the operator.
// The full error always goes to the log file.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	if input, ok := domain.MissingInput(err); ok {
		return "Missing required input " + input + " (set it in the environment or env/<stage>.yaml)"
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {

		case domain.KindNotFound:
			if strings.Contains(oe.Op, "workspacefinder") {
				return "Workspace not found (tip: run `staticsite init`)"
			}
			if strings.Contains(oe.Op, "deploystore") || strings.Contains(oe.Op, "pulumisite") || strings.Contains(oe.Op, "verify") {
				return "Stage has not been deployed"
			}
			return "Not found: " + rootCause(err)

		case domain.KindInvalidConfig:
			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}

			if line := extractLine(err.Error()); line != "" && looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base + " line " + line
			}
			if looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base
			}
			return "Invalid config: " + rootCause(err)

		case domain.KindBuild:
			return "Build failed: " + rootCause(err)

		case domain.KindProvisioning:
			return "Provisioning failed (see logs and the Pulumi output above)"

		default:
			return "Unexpected error (see logs)"
		}
	}

	if looksLikeYAMLProblem(err.Error()) {
		if line := extractLine(err.Error()); line != "" {
			return "Invalid YAML line " + line
		}
		return "Invalid YAML"
	}

	return err.Error()
}

// rootCause returns the innermost message of an OpError chain.
func rootCause(err error) string {
	var oe *domain.OpError
	for errors.As(err, &oe) && oe.Err != nil {
		err = oe.Err
	}
	return err.Error()
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}

package yamlenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/moaiedu/staticsite/internal/domain"
)

func noEnviron() []string { return nil }

func writeEnvFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadEnvironment_MergesSecrets(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")
	envDir := filepath.Join(root, "env")

	writeEnvFile(t, envDir, "dev.yaml", "vars:\n  DOMAIN: example.com\n  APEX_SUBDOMAIN: base\n")
	writeEnvFile(t, envDir, "secrets.local.yaml", "vars:\n  APEX_SUBDOMAIN: www\n")

	l := NewLoader(root, WithEnviron(noEnviron))
	env, err := l.LoadEnvironment("dev")
	if err != nil {
		t.Fatalf("LoadEnvironment error: %v", err)
	}

	if env.Name != "dev" {
		t.Fatalf("expected name=dev, got=%s", env.Name)
	}
	if env.Vars["DOMAIN"] != "example.com" {
		t.Fatalf("expected DOMAIN, got=%s", env.Vars["DOMAIN"])
	}
	if env.Vars["APEX_SUBDOMAIN"] != "www" {
		t.Fatalf("expected secrets override, got=%s", env.Vars["APEX_SUBDOMAIN"])
	}
}

func TestLoadEnvironment_ProcessEnvWins(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")
	writeEnvFile(t, filepath.Join(root, "env"), "dev.yaml", "vars:\n  DOMAIN: example.com\n  AWS_REGION: us-east-1\n")

	l := NewLoader(root, WithEnviron(func() []string {
		return []string{"AWS_REGION=ap-northeast-1", "MALFORMED", "=nokey"}
	}))
	env, err := l.LoadEnvironment("dev")
	if err != nil {
		t.Fatalf("LoadEnvironment error: %v", err)
	}

	if env.Vars["AWS_REGION"] != "ap-northeast-1" {
		t.Fatalf("expected process env override, got=%s", env.Vars["AWS_REGION"])
	}
	if env.Vars["DOMAIN"] != "example.com" {
		t.Fatalf("expected file value kept, got=%s", env.Vars["DOMAIN"])
	}
	if _, ok := env.Vars["MALFORMED"]; ok {
		t.Fatalf("expected malformed entry to be skipped")
	}
}

func TestLoadEnvironment_FilesOptional(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")

	l := NewLoader(root, WithEnviron(func() []string { return []string{"DOMAIN=example.com"} }))
	env, err := l.LoadEnvironment("pr-7")
	if err != nil {
		t.Fatalf("LoadEnvironment error: %v", err)
	}
	if env.Vars["DOMAIN"] != "example.com" {
		t.Fatalf("expected process env only, got=%v", env.Vars)
	}
}

func TestLoadEnvironment_InvalidYAML(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")
	writeEnvFile(t, filepath.Join(root, "env"), "dev.yaml", "vars: [unclosed\n")

	l := NewLoader(root, WithEnviron(noEnviron))
	_, err := l.LoadEnvironment("dev")
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}

func TestLoadEnvironment_SupportsYML(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")
	writeEnvFile(t, filepath.Join(root, "env"), "prod.yml", "vars:\n  DOMAIN: example.com\n")

	l := NewLoader(root, WithEnviron(noEnviron))
	env, err := l.LoadEnvironment("prod")
	if err != nil {
		t.Fatalf("LoadEnvironment error: %v", err)
	}

	if env.Name != "prod" {
		t.Fatalf("expected name=prod, got=%s", env.Name)
	}
	if env.Vars["DOMAIN"] != "example.com" {
		t.Fatalf("expected DOMAIN, got=%s", env.Vars["DOMAIN"])
	}
}

func TestListEnvironments(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")
	envDir := filepath.Join(root, "env")
	writeEnvFile(t, envDir, "prod.yaml", "vars: {}\n")
	writeEnvFile(t, envDir, "dev.yaml", "vars: {}\n")
	writeEnvFile(t, envDir, "secrets.local.yaml", "vars: {}\n")
	writeEnvFile(t, envDir, "notes.txt", "ignore me\n")

	refs, err := NewLoader(root).ListEnvironments(root)
	if err != nil {
		t.Fatalf("ListEnvironments error: %v", err)
	}
	if len(refs) != 2 || refs[0].Name != "dev" || refs[1].Name != "prod" {
		t.Fatalf("unexpected refs %+v", refs)
	}
}

func TestListEnvironments_NoDir(t *testing.T) {
	refs, err := NewLoader("x").ListEnvironments(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("expected no refs, got %+v", refs)
	}
}

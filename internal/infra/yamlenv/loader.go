package yamlenv

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/ports"
	"gopkg.in/yaml.v3"
)

// Loader layers, lowest to highest precedence: env/<stage>.yaml,
// env/secrets.local.yaml and the process environment. Both files are optional;
// the process environment is the primary source.
type Loader struct {
	rootDir     string
	envDir      string
	secretsFile string
	environ     func() []string
}

type Option func(*Loader)

func WithEnvDir(dir string) Option {
	return func(l *Loader) { l.envDir = dir }
}

func WithSecretsFile(name string) Option {
	return func(l *Loader) { l.secretsFile = name }
}

// WithEnviron replaces os.Environ (useful for tests).
func WithEnviron(environ func() []string) Option {
	return func(l *Loader) { l.environ = environ }
}

func NewLoader(root string, opts ...Option) *Loader {
	l := &Loader{
		rootDir:     root,
		envDir:      "env",
		secretsFile: "secrets.local.yaml",
		environ:     os.Environ,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var (
	_ ports.EnvironmentLoader  = (*Loader)(nil)
	_ ports.EnvironmentCatalog = (*Loader)(nil)
)

func (l *Loader) LoadEnvironment(stage domain.Stage) (domain.Environment, error) {
	name := strings.TrimSpace(string(stage))
	dir := filepath.Join(l.rootDir, l.envDir)

	var base domain.Vars
	if name != "" {
		v, err := readVarsOptional(stageFile(dir, name))
		if err != nil {
			return domain.Environment{}, err
		}
		base = v
	}

	// Secrets are optional; they override stage vars.
	secrets, err := readVarsOptional(filepath.Join(dir, l.secretsFile))
	if err != nil {
		return domain.Environment{}, fmt.Errorf("failed to load secrets: %w", err)
	}

	merged := domain.Merge(base, secrets)
	merged = domain.Merge(merged, parseEnviron(l.environ()))

	return domain.Environment{
		Name: name,
		Vars: merged,
	}, nil
}

// ListEnvironments lists the per-stage env files (secrets excluded).
func (l *Loader) ListEnvironments(root string) ([]domain.EnvironmentRef, error) {
	dir := filepath.Join(root, l.envDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &domain.OpError{
			Op:   "yamlenv.list",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.EnvironmentRef
	for _, e := range entries {
		if e.IsDir() || e.Name() == l.secretsFile {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		refs = append(refs, domain.EnvironmentRef{
			Name: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Path: filepath.Join(dir, e.Name()),
		})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// stageFile prefers <stage>.yaml and falls back to <stage>.yml.
func stageFile(dir, stage string) string {
	p := filepath.Join(dir, stage+".yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	alt := filepath.Join(dir, stage+".yml")
	if _, err := os.Stat(alt); err == nil {
		return alt
	}
	return p
}

func parseEnviron(kv []string) domain.Vars {
	out := domain.Vars{}
	for _, e := range kv {
		k, v, ok := strings.Cut(e, "=")
		if !ok || k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

type yamlEnv struct {
	Vars map[string]string `yaml:"vars"`
}

func readVars(path string) (domain.Vars, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlenv.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlEnv
	if err := yaml.Unmarshal(b, &y); err != nil {
		return nil, &domain.OpError{
			Op:   "yamlenv.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	if y.Vars == nil {
		y.Vars = map[string]string{}
	}

	return domain.Vars(y.Vars), nil
}

func readVarsOptional(path string) (domain.Vars, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Vars{}, nil
		}
		return nil, &domain.OpError{
			Op:   "yamlenv.stat",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	return readVars(path)
}

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/infra/deploystore"
	"github.com/moaiedu/staticsite/internal/infra/logger"
	"github.com/moaiedu/staticsite/internal/infra/pulumisite"
	"github.com/moaiedu/staticsite/internal/infra/shellbuild"
	"github.com/moaiedu/staticsite/internal/infra/siteprobe"
	"github.com/moaiedu/staticsite/internal/infra/workspacefinder"
	"github.com/moaiedu/staticsite/internal/infra/yamlenv"
	"github.com/moaiedu/staticsite/internal/ports"
	"github.com/moaiedu/staticsite/internal/usecase"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	envs       ports.EnvironmentLoader
	envCatalog ports.EnvironmentCatalog

	store  ports.DeploymentStore
	prober ports.SiteProber
	log    *slog.Logger
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	envLoader := yamlenv.NewLoader(
		root,
		yamlenv.WithEnvDir(cfg.Paths.EnvironmentsDir),
	)

	return &workspaceCtx{
		root:       root,
		cfg:        cfg,
		envs:       envLoader,
		envCatalog: envLoader,
		store:      deploystore.NewJSONStore(root, cfg),
		prober:     siteprobe.New(),
		log:        logger.L(),
	}, nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `staticsite init`): %w", wd, err)
	}
	return root, nil
}

// stageArg returns the --stage value, or the workspace default stage.
func stageArg(ws *workspaceCtx, flag string) domain.Stage {
	if s := strings.TrimSpace(flag); s != "" {
		return domain.Stage(s)
	}
	return domain.Stage(strings.TrimSpace(ws.cfg.Defaults.Stage))
}

func (ws *workspaceCtx) resolver() *usecase.ResolveSite {
	return usecase.NewResolveSite(ws.cfg, ws.envs)
}

// fileVars returns the variables the env files add for stage, so the build
// command and the Pulumi engine see the same inputs as the resolver.
func (ws *workspaceCtx) fileVars(stage domain.Stage) domain.Vars {
	if stage.Validate() != nil {
		return domain.Vars{}
	}
	env, err := ws.envs.LoadEnvironment(stage)
	if err != nil {
		return domain.Vars{}
	}
	out := domain.Vars{}
	for k, v := range env.Vars {
		if cur, ok := os.LookupEnv(k); ok && cur == v {
			continue
		}
		out[k] = v
	}
	return out
}

func (ws *workspaceCtx) builder(stage domain.Stage, stdout, stderr io.Writer) ports.Builder {
	return shellbuild.New(ws.root,
		shellbuild.WithOutput(stdout, stderr),
		shellbuild.WithEnv(envPairs(ws.fileVars(stage))...),
	)
}

func (ws *workspaceCtx) provisioner(stage domain.Stage, progress io.Writer) ports.Provisioner {
	return pulumisite.New(ws.root,
		pulumisite.WithProgress(progress),
		pulumisite.WithEnvVars(ws.fileVars(stage)),
	)
}

func envPairs(vars domain.Vars) []string {
	out := make([]string, 0, len(vars))
	for k, v := range vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

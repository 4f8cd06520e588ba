package pulumisite

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optdestroy"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optup"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/ports"
)

var _ ports.Provisioner = (*Provisioner)(nil)

// Provisioner drives the StaticSite program through the Pulumi Automation API.
// Each stage is its own stack inside a project named after the app.
type Provisioner struct {
	root     string
	progress io.Writer
	envVars  map[string]string
}

type Option func(*Provisioner)

// WithProgress streams engine output (resource diffs, events) to w.
func WithProgress(w io.Writer) Option {
	return func(p *Provisioner) {
		if w != nil {
			p.progress = w
		}
	}
}

// WithEnvVars sets extra environment variables for the Pulumi engine,
// e.g. AWS credentials loaded from env files.
func WithEnvVars(vars map[string]string) Option {
	return func(p *Provisioner) {
		for k, v := range vars {
			p.envVars[k] = v
		}
	}
}

// New creates a Provisioner for the workspace at root.
func New(root string, opts ...Option) *Provisioner {
	p := &Provisioner{
		root:     root,
		progress: io.Discard,
		envVars:  map[string]string{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provisioner) Up(ctx context.Context, site domain.SiteConfig) (domain.SiteOutputs, error) {
	const op = "pulumisite.up"

	stack, err := p.stack(ctx, site, true)
	if err != nil {
		return domain.SiteOutputs{}, provisioningErr(op, site, err)
	}

	res, err := stack.Up(ctx, optup.ProgressStreams(p.progress))
	if err != nil {
		return domain.SiteOutputs{}, provisioningErr(op, site, err)
	}
	return decodeOutputs(res.Outputs), nil
}

func (p *Provisioner) Destroy(ctx context.Context, site domain.SiteConfig) error {
	const op = "pulumisite.destroy"

	stack, err := p.stack(ctx, site, false)
	if err != nil {
		return p.selectErr(op, site, err)
	}

	if _, err := stack.Destroy(ctx, optdestroy.ProgressStreams(p.progress)); err != nil {
		return provisioningErr(op, site, err)
	}

	// Retained stacks keep their state so retained resources stay tracked.
	if site.Removal == domain.RemovalRetain {
		return nil
	}
	if err := stack.Workspace().RemoveStack(ctx, stack.Name()); err != nil {
		return provisioningErr(op, site, err)
	}
	return nil
}

func (p *Provisioner) Outputs(ctx context.Context, site domain.SiteConfig) (domain.SiteOutputs, error) {
	const op = "pulumisite.outputs"

	stack, err := p.stack(ctx, site, false)
	if err != nil {
		return domain.SiteOutputs{}, p.selectErr(op, site, err)
	}

	out, err := stack.Outputs(ctx)
	if err != nil {
		return domain.SiteOutputs{}, provisioningErr(op, site, err)
	}
	return decodeOutputs(out), nil
}

// stack opens the stack for site. create is false for operations that make
// no sense on a stack that was never deployed.
func (p *Provisioner) stack(ctx context.Context, site domain.SiteConfig, create bool) (auto.Stack, error) {
	program := Program(site, filepath.Join(p.root, filepath.FromSlash(site.Build.Output)))

	wsOpts := []auto.LocalWorkspaceOption{}
	if len(p.envVars) > 0 {
		wsOpts = append(wsOpts, auto.EnvVars(p.envVars))
	}

	project := ProjectName(site.App)
	name := string(site.Stage)

	var (
		stack auto.Stack
		err   error
	)
	if create {
		stack, err = auto.UpsertStackInlineSource(ctx, name, project, program, wsOpts...)
	} else {
		stack, err = auto.SelectStackInlineSource(ctx, name, project, program, wsOpts...)
	}
	if err != nil {
		return auto.Stack{}, err
	}

	if err := stack.SetConfig(ctx, "aws:region", auto.ConfigValue{Value: site.Region}); err != nil {
		return auto.Stack{}, fmt.Errorf("set aws:region: %w", err)
	}
	return stack, nil
}

func (p *Provisioner) selectErr(op string, site domain.SiteConfig, err error) error {
	if auto.IsSelectStack404Error(err) {
		return &domain.OpError{
			Op:   op,
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("stage %s of %s has not been deployed: %w", site.Stage, site.App, domain.ErrNotFound),
		}
	}
	return provisioningErr(op, site, err)
}

func provisioningErr(op string, site domain.SiteConfig, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindProvisioning,
		Err:  fmt.Errorf("stack %s/%s: %w: %w", ProjectName(site.App), site.Stage, domain.ErrProvisioning, err),
	}
}

// decodeOutputs relays the exported stack outputs; missing or non-string values are left empty.
func decodeOutputs(out auto.OutputMap) domain.SiteOutputs {
	str := func(key string) string {
		v, ok := out[key]
		if !ok {
			return ""
		}
		s, _ := v.Value.(string)
		return s
	}
	return domain.SiteOutputs{
		URL:        str(domain.OutputSiteURL),
		BucketName: str(domain.OutputBucketName),
	}
}

var invalidProject = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ProjectName derives a valid Pulumi project name from the app name.
func ProjectName(app string) string {
	name := strings.Trim(invalidProject.ReplaceAllString(strings.TrimSpace(app), "-"), "-.")
	if name == "" {
		return "staticsite"
	}
	return name
}

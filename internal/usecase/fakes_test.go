package usecase

import (
	"context"
	"errors"

	"github.com/moaiedu/staticsite/internal/domain"
)

type fakeEnvLoader struct {
	vars domain.Vars
	err  error
	got  []domain.Stage
}

func (f *fakeEnvLoader) LoadEnvironment(stage domain.Stage) (domain.Environment, error) {
	f.got = append(f.got, stage)
	if f.err != nil {
		return domain.Environment{}, f.err
	}
	return domain.Environment{Name: string(stage), Vars: domain.Merge(nil, f.vars)}, nil
}

func fullEnv() *fakeEnvLoader {
	return &fakeEnvLoader{vars: domain.Vars{
		"DOMAIN":         "example.com",
		"APEX_SUBDOMAIN": "www",
		"AWS_REGION":     "eu-west-1",
	}}
}

type fakeBuilder struct {
	calls int
	specs []domain.BuildSpec
	res   domain.BuildResult
	err   error
}

func (f *fakeBuilder) Build(_ context.Context, spec domain.BuildSpec) (domain.BuildResult, error) {
	f.calls++
	f.specs = append(f.specs, spec)
	if f.err != nil {
		return domain.BuildResult{}, f.err
	}
	r := f.res
	if r.OutputDir == "" {
		r.OutputDir = spec.Output
	}
	return r, nil
}

type fakeProvisioner struct {
	upCalls      int
	destroyCalls int
	lastSite     domain.SiteConfig
	out          domain.SiteOutputs
	upErr        error
	destroyErr   error
	outputsErr   error
}

func (f *fakeProvisioner) Up(_ context.Context, site domain.SiteConfig) (domain.SiteOutputs, error) {
	f.upCalls++
	f.lastSite = site
	if f.upErr != nil {
		return domain.SiteOutputs{}, f.upErr
	}
	return f.out, nil
}

func (f *fakeProvisioner) Destroy(_ context.Context, site domain.SiteConfig) error {
	f.destroyCalls++
	f.lastSite = site
	return f.destroyErr
}

func (f *fakeProvisioner) Outputs(_ context.Context, site domain.SiteConfig) (domain.SiteOutputs, error) {
	f.lastSite = site
	if f.outputsErr != nil {
		return domain.SiteOutputs{}, f.outputsErr
	}
	return f.out, nil
}

type fakeStore struct {
	saved  []domain.Deployment
	latest map[domain.Stage]domain.Deployment
	err    error
}

func (s *fakeStore) SaveDeployment(d domain.Deployment) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, d)
	return "dep-1", nil
}

func (s *fakeStore) LatestDeployment(stage domain.Stage) (domain.Deployment, error) {
	if d, ok := s.latest[stage]; ok {
		return d, nil
	}
	return domain.Deployment{}, &domain.OpError{Op: "fake.latest", Kind: domain.KindNotFound, Err: domain.ErrNotFound}
}

type fakeProber struct {
	specs []domain.ProbeSpec
	fail  map[string]bool
}

func (p *fakeProber) Probe(_ context.Context, spec domain.ProbeSpec) domain.ProbeResult {
	p.specs = append(p.specs, spec)
	return domain.ProbeResult{URL: spec.URL, Expect: spec.Expect, Passed: !p.fail[spec.URL]}
}

type fakeInitializer struct {
	spec  domain.WorkspaceSpec
	force bool
}

func (f *fakeInitializer) Init(spec domain.WorkspaceSpec, force bool) error {
	f.spec = spec
	f.force = force
	return nil
}

var errBoom = errors.New("boom")

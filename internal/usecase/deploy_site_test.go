package usecase

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/moaiedu/staticsite/internal/domain"
)

func newDeploy(env *fakeEnvLoader, b *fakeBuilder, p *fakeProvisioner, s *fakeStore) *DeploySite {
	clock := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	opts := []DeployOption{WithClock(func() time.Time { return clock })}
	if s != nil {
		opts = append(opts, WithStore(s))
	}
	return NewDeploySite(NewResolveSite(domain.DefaultConfig(), env), b, p, opts...)
}

func TestDeploySite_HappyPath(t *testing.T) {
	b := &fakeBuilder{res: domain.BuildResult{Files: 4}}
	p := &fakeProvisioner{out: domain.SiteOutputs{URL: "https://example.com", BucketName: "bucket-1"}}
	s := &fakeStore{}

	res, err := newDeploy(fullEnv(), b, p, s).Execute(context.Background(), "prod", DeployOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.calls != 1 || p.upCalls != 1 {
		t.Fatalf("expected one build and one up, got build=%d up=%d", b.calls, p.upCalls)
	}
	if p.lastSite.Domain == nil || p.lastSite.Domain.Name != "example.com" {
		t.Fatalf("provisioner got unexpected site: %+v", p.lastSite)
	}
	if res.Deployment.Outputs != p.out {
		t.Fatalf("outputs not relayed: %+v", res.Deployment.Outputs)
	}
	if res.Deployment.Build == nil || res.Deployment.Build.Files != 4 {
		t.Fatalf("expected build result, got %+v", res.Deployment.Build)
	}
	if res.RecordID != "dep-1" || len(s.saved) != 1 {
		t.Fatalf("expected saved record, id=%q saved=%d", res.RecordID, len(s.saved))
	}
	if s.saved[0].Stage != "prod" || s.saved[0].EndedAt.IsZero() {
		t.Fatalf("unexpected record: %+v", s.saved[0])
	}
}

func TestDeploySite_MissingInputStopsBeforeBuild(t *testing.T) {
	env := fullEnv()
	delete(env.vars, "AWS_REGION")
	b := &fakeBuilder{}
	p := &fakeProvisioner{}

	_, err := newDeploy(env, b, p, nil).Execute(context.Background(), "dev", DeployOptions{})
	if !domain.IsKind(err, domain.KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if b.calls != 0 || p.upCalls != 0 {
		t.Fatalf("nothing should run after a configuration error, build=%d up=%d", b.calls, p.upCalls)
	}
}

func TestDeploySite_BuildFailureStopsBeforeProvisioning(t *testing.T) {
	buildErr := &domain.OpError{Op: "shellbuild.run", Kind: domain.KindBuild, Err: domain.ErrBuild}
	b := &fakeBuilder{err: buildErr}
	p := &fakeProvisioner{}
	s := &fakeStore{}

	_, err := newDeploy(fullEnv(), b, p, s).Execute(context.Background(), "dev", DeployOptions{})
	if !errors.Is(err, domain.ErrBuild) {
		t.Fatalf("expected build error, got %v", err)
	}
	if p.upCalls != 0 || len(s.saved) != 0 {
		t.Fatalf("provisioning must not run after build failure")
	}
}

func TestDeploySite_ProvisioningFailureIsNotRecorded(t *testing.T) {
	p := &fakeProvisioner{upErr: &domain.OpError{Op: "pulumisite.up", Kind: domain.KindProvisioning, Err: domain.ErrProvisioning}}
	s := &fakeStore{}

	_, err := newDeploy(fullEnv(), &fakeBuilder{}, p, s).Execute(context.Background(), "dev", DeployOptions{})
	if !domain.IsKind(err, domain.KindProvisioning) {
		t.Fatalf("expected provisioning error, got %v", err)
	}
	if p.upCalls != 1 {
		t.Fatalf("provisioning must not be retried, got %d calls", p.upCalls)
	}
	if len(s.saved) != 0 {
		t.Fatalf("failed deploys are not recorded")
	}
}

func TestDeploySite_SkipBuild(t *testing.T) {
	b := &fakeBuilder{res: domain.BuildResult{Files: 7}}
	p := &fakeProvisioner{out: domain.SiteOutputs{URL: "https://dev-www.example.com"}}

	res, err := newDeploy(fullEnv(), b, p, nil).Execute(context.Background(), "dev", DeployOptions{SkipBuild: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.calls != 1 {
		t.Fatalf("expected the output dir to be inspected once, got %d calls", b.calls)
	}
	if b.specs[0].Command != "" || b.specs[0].Output != "public" {
		t.Fatalf("expected inspection without a command, got %+v", b.specs[0])
	}
	if res.Deployment.Build == nil || res.Deployment.Build.Files != 7 {
		t.Fatalf("expected inspected build result, got %+v", res.Deployment.Build)
	}
	if p.upCalls != 1 || res.RecordID != "" {
		t.Fatalf("unexpected result: up=%d record=%q", p.upCalls, res.RecordID)
	}
}

func TestDeploySite_SkipBuildRejectsEmptyOutput(t *testing.T) {
	emptyErr := &domain.OpError{Op: "shellbuild.output", Kind: domain.KindBuild, Path: "public", Err: domain.ErrBuild}
	b := &fakeBuilder{err: emptyErr}
	p := &fakeProvisioner{}
	s := &fakeStore{}

	_, err := newDeploy(fullEnv(), b, p, s).Execute(context.Background(), "dev", DeployOptions{SkipBuild: true})
	if !domain.IsKind(err, domain.KindBuild) {
		t.Fatalf("expected build error, got %v", err)
	}
	if p.upCalls != 0 || len(s.saved) != 0 {
		t.Fatalf("an empty artifact dir must not be published, up=%d saved=%d", p.upCalls, len(s.saved))
	}
}

func TestDeploySite_StoreFailureKeepsDeploy(t *testing.T) {
	p := &fakeProvisioner{out: domain.SiteOutputs{URL: "https://dev-www.example.com"}}
	s := &fakeStore{err: errBoom}

	res, err := newDeploy(fullEnv(), &fakeBuilder{}, p, s).Execute(context.Background(), "dev", DeployOptions{})
	if err != nil {
		t.Fatalf("store failure must not fail the deploy: %v", err)
	}
	if res.RecordID != "" {
		t.Fatalf("expected no record id, got %q", res.RecordID)
	}
}

func TestDeploySite_LogsEvents(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	p := &fakeProvisioner{out: domain.SiteOutputs{URL: "https://dev-www.example.com"}}
	s := &fakeStore{err: errBoom}

	uc := NewDeploySite(NewResolveSite(domain.DefaultConfig(), fullEnv()), &fakeBuilder{}, p, WithStore(s), WithLogger(log))
	if _, err := uc.Execute(context.Background(), "dev", DeployOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, event := range []string{
		"deploy.resolved",
		"deploy.build.started",
		"deploy.build.finished",
		"deploy.provision.started",
		"deploy.provision.finished",
		"deploy.record.failed",
	} {
		if !strings.Contains(out, `"msg":"`+event+`"`) {
			t.Fatalf("expected %s in log:\n%s", event, out)
		}
	}
	if !strings.Contains(out, `"hostname":"dev-www.example.com"`) {
		t.Fatalf("expected resolved hostname in log:\n%s", out)
	}
}

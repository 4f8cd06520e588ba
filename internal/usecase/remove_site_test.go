package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/moaiedu/staticsite/internal/domain"
)

func TestRemoveSite(t *testing.T) {
	p := &fakeProvisioner{}
	site, err := NewRemoveSite(NewResolveSite(domain.DefaultConfig(), fullEnv()), p, nil).Execute(context.Background(), "dev")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.destroyCalls != 1 || p.lastSite.Stage != "dev" {
		t.Fatalf("expected destroy for dev, got calls=%d site=%+v", p.destroyCalls, p.lastSite)
	}
	if site.Removal != domain.RemovalRemove {
		t.Fatalf("expected default removal policy, got %q", site.Removal)
	}
}

func TestRemoveSite_PropagatesError(t *testing.T) {
	p := &fakeProvisioner{destroyErr: errBoom}
	_, err := NewRemoveSite(NewResolveSite(domain.DefaultConfig(), fullEnv()), p, nil).Execute(context.Background(), "dev")
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected destroy error, got %v", err)
	}
}

func TestSiteOutputs(t *testing.T) {
	p := &fakeProvisioner{out: domain.SiteOutputs{URL: "https://example.com", BucketName: "b"}}
	out, err := NewSiteOutputs(NewResolveSite(domain.DefaultConfig(), fullEnv()), p).Execute(context.Background(), "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != p.out {
		t.Fatalf("expected outputs relayed, got %+v", out)
	}
}

func TestInitWorkspace(t *testing.T) {
	ini := &fakeInitializer{}
	if err := NewInitWorkspace(ini).Execute("/tmp/site", "Docs", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ini.spec.Root != "/tmp/site" || ini.spec.AppName != "Docs" || !ini.force {
		t.Fatalf("unexpected init call: %+v force=%v", ini.spec, ini.force)
	}
}

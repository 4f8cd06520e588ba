package siteprobe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/moaiedu/staticsite/internal/domain"
	"github.com/moaiedu/staticsite/internal/infra/httpclient"
	"github.com/moaiedu/staticsite/internal/ports"
)

// Prober checks a deployed site over HTTP. Redirects are never followed.
type Prober struct {
	exec *httpclient.Executor
}

type Option func(*Prober)

func WithExecutor(e *httpclient.Executor) Option {
	return func(p *Prober) {
		if e != nil {
			p.exec = e
		}
	}
}

func New(opts ...Option) *Prober {
	p := &Prober{exec: httpclient.NewExecutor()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ ports.SiteProber = (*Prober)(nil)

func (p *Prober) Probe(ctx context.Context, spec domain.ProbeSpec) domain.ProbeResult {
	res := domain.ProbeResult{URL: spec.URL, Expect: spec.Expect}

	req, err := httpclient.BuildProbeRequest(ctx, spec)
	if err != nil {
		res.Message = err.Error()
		return res
	}

	resp, err := p.exec.Do(ctx, req)
	res.LatencyMS = resp.Duration.Milliseconds()
	res.StatusCode = resp.Status
	if err != nil {
		res.Failure = string(httpclient.Classify(err))
		res.Message = fmt.Sprintf("request failed (%s): %v", res.Failure, err)
		return res
	}
	res.Location = resp.Location

	res.Passed, res.Message = evaluate(spec, resp.Status, res.Location)
	return res
}

func evaluate(spec domain.ProbeSpec, status int, location string) (bool, string) {
	switch spec.Expect {
	case domain.ExpectOK:
		if status >= 200 && status < 300 {
			return true, fmt.Sprintf("status %d", status)
		}
		return false, fmt.Sprintf("expected 2xx, got %d", status)

	case domain.ExpectRedirect:
		if status != http.StatusMovedPermanently && status != http.StatusPermanentRedirect {
			return false, fmt.Sprintf("expected 301 or 308, got %d", status)
		}
		u, err := url.Parse(location)
		if err != nil || u.Host == "" {
			return false, fmt.Sprintf("redirect location %q is not absolute", location)
		}
		if !strings.EqualFold(u.Hostname(), spec.RedirectTo) {
			return false, fmt.Sprintf("redirects to %s, expected %s", u.Hostname(), spec.RedirectTo)
		}
		return true, fmt.Sprintf("%d to %s", status, u.Hostname())

	default:
		return false, fmt.Sprintf("unknown expectation %q", spec.Expect)
	}
}

package httpclient

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/moaiedu/staticsite/internal/domain"
)

func TestBuildProbeRequest(t *testing.T) {
	req, err := BuildProbeRequest(context.Background(), domain.ProbeSpec{URL: " https://example.com/docs?x=1 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != http.MethodGet {
		t.Fatalf("expected GET, got %s", req.Method)
	}
	if req.URL.Host != "example.com" || req.URL.Path != "/docs" || req.URL.RawQuery != "x=1" {
		t.Fatalf("unexpected url: %s", req.URL)
	}
	if !strings.HasPrefix(req.Header.Get("User-Agent"), "staticsite-verify/") {
		t.Fatalf("expected user agent, got %q", req.Header.Get("User-Agent"))
	}
}

func TestBuildProbeRequestRejectsBadURLs(t *testing.T) {
	for _, raw := range []string{"", "   ", "example.com", "ftp://example.com", "https://"} {
		_, err := BuildProbeRequest(context.Background(), domain.ProbeSpec{URL: raw})
		if err == nil {
			t.Fatalf("expected error for %q", raw)
		}
		if !domain.IsKind(err, domain.KindInvalidConfig) {
			t.Fatalf("expected invalid_config for %q, got %v", raw, err)
		}
	}
}

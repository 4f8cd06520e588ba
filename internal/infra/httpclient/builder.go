package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/moaiedu/staticsite/internal/buildinfo"
	"github.com/moaiedu/staticsite/internal/domain"
)

// BuildProbeRequest builds the GET request for a site probe.
func BuildProbeRequest(ctx context.Context, spec domain.ProbeSpec) (*http.Request, error) {
	const op = "httpclient.build"

	raw := strings.TrimSpace(spec.URL)
	if raw == "" {
		return nil, &domain.OpError{
			Op:   op,
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("probe url is empty: %w", domain.ErrInvalidConfig),
		}
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &domain.OpError{
			Op:   op,
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("probe url %q must be absolute http(s): %w", raw, domain.ErrInvalidConfig),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &domain.OpError{
			Op:   op,
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}
	req.Header.Set("User-Agent", "staticsite-verify/"+buildinfo.Version)
	req.Header.Set("Accept", "text/html,*/*")
	return req, nil
}

package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"time"
)

// maxBodyBytes bounds how much of a response body is kept.
const maxBodyBytes = 64 * 1024

// Response is what a probe needs from an HTTP exchange.
type Response struct {
	Status   int
	Location string
	Headers  http.Header
	Body     []byte
	Duration time.Duration
}

// FailureKind classifies a transport error.
type FailureKind string

const (
	FailureTimeout    FailureKind = "timeout"
	FailureDNS        FailureKind = "dns"
	FailureTLS        FailureKind = "tls"
	FailureConnection FailureKind = "connection"
	FailureCanceled   FailureKind = "canceled"
	FailureUnknown    FailureKind = "unknown"
)

// Classify maps err to a FailureKind.
func Classify(err error) FailureKind {
	if err == nil {
		return ""
	}

	var dnsErr *net.DNSError
	var certErr *tls.CertificateVerificationError
	var unknownAuth x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	var opErr *net.OpError
	var netErr net.Error

	switch {
	case errors.Is(err, context.Canceled):
		return FailureCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.As(err, &dnsErr):
		return FailureDNS
	case errors.As(err, &certErr), errors.As(err, &unknownAuth), errors.As(err, &hostErr):
		return FailureTLS
	case errors.As(err, &netErr) && netErr.Timeout():
		return FailureTimeout
	case errors.As(err, &opErr):
		return FailureConnection
	default:
		return FailureUnknown
	}
}

// Executor sends probe requests and times them.
type Executor struct {
	client  *http.Client
	timeout time.Duration
}

type ExecutorOption func(*Executor)

// WithTimeout bounds each request on top of the client timeout.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = timeout }
}

func WithClient(client *http.Client) ExecutorOption {
	return func(e *Executor) {
		if client != nil {
			e.client = client
		}
	}
}

func NewExecutor(opts ...ExecutorOption) *Executor {
	cfg := DefaultConfig()
	e := &Executor{
		client:  New(cfg),
		timeout: cfg.Timeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do sends req. Duration is set even when the request fails.
func (e *Executor) Do(ctx context.Context, req *http.Request) (Response, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := e.client.Do(req.WithContext(ctx))
	if err != nil {
		return Response{Duration: time.Since(start)}, err
	}
	defer resp.Body.Close()

	out := Response{
		Status:   resp.StatusCode,
		Location: resp.Header.Get("Location"),
		Headers:  resp.Header.Clone(),
	}
	out.Body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	out.Duration = time.Since(start)
	return out, err
}

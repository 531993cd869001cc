package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
)

// Func represents a health check that returns an error when the resource is unavailable.
type Func func(ctx context.Context) error

// PingFunc is a check supplied by the caller.
type PingFunc func(ctx context.Context) error

// HTTPDoer represents the subset of *http.Client used by NewURLProbe.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewPingProbe wraps fn so its failures name the probe.
func NewPingProbe(name string, fn PingFunc) Func {
	return func(ctx context.Context) error {
		if fn == nil {
			return fmt.Errorf("%s probe: ping function is nil", name)
		}
		if err := fn(contextOrBackground(ctx)); err != nil {
			return fmt.Errorf("%s probe failed: %w", name, err)
		}
		return nil
	}
}

// NewHandlerProbe serves a request for path through h without a network
// round trip. Any status below 500 passes: an entry point that answers with
// 404 for an unknown path is still alive.
func NewHandlerProbe(name string, h http.Handler, path string) Func {
	return func(ctx context.Context) error {
		if h == nil {
			return fmt.Errorf("%s probe: handler is nil", name)
		}
		req, err := http.NewRequestWithContext(contextOrBackground(ctx), http.MethodGet, path, nil)
		if err != nil {
			return fmt.Errorf("%s probe: failed to build request: %w", name, err)
		}

		rec := &statusWriter{header: http.Header{}, status: http.StatusOK}
		h.ServeHTTP(rec, req)
		if rec.status >= http.StatusInternalServerError {
			return fmt.Errorf("%s probe: unexpected status %d %s", name, rec.status, http.StatusText(rec.status))
		}
		return nil
	}
}

// URLOption configures NewURLProbe.
type URLOption func(*urlProbe)

type urlProbe struct {
	client  HTTPDoer
	method  string
	allowed []int
}

// WithHTTPClient overrides the client used for the request.
func WithHTTPClient(client HTTPDoer) URLOption {
	return func(p *urlProbe) {
		if client != nil {
			p.client = client
		}
	}
}

// WithMethod overrides the GET request method.
func WithMethod(method string) URLOption {
	return func(p *urlProbe) {
		if m := strings.ToUpper(strings.TrimSpace(method)); m != "" {
			p.method = m
		}
	}
}

// WithAllowedStatuses accepts exactly the given statuses instead of any 2xx.
func WithAllowedStatuses(statuses ...int) URLOption {
	return func(p *urlProbe) {
		p.allowed = append([]int(nil), statuses...)
	}
}

// NewURLProbe requests target and succeeds on a 2xx response.
func NewURLProbe(name, target string, opts ...URLOption) Func {
	p := &urlProbe{client: http.DefaultClient, method: http.MethodGet}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return func(ctx context.Context) error {
		target := strings.TrimSpace(target)
		if target == "" {
			return fmt.Errorf("%s probe: target URL is required", name)
		}

		req, err := http.NewRequestWithContext(contextOrBackground(ctx), p.method, target, nil)
		if err != nil {
			return fmt.Errorf("%s probe: failed to build request: %w", name, err)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("%s probe request failed: %w", name, err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if !p.accepts(resp.StatusCode) {
			return fmt.Errorf("%s probe: unexpected status %d %s", name, resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return nil
	}
}

func (p *urlProbe) accepts(status int) bool {
	if len(p.allowed) > 0 {
		return slices.Contains(p.allowed, status)
	}
	return status >= 200 && status < 300
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

// statusWriter discards the body and keeps the status.
type statusWriter struct {
	header      http.Header
	status      int
	wroteHeader bool
}

func (s *statusWriter) Header() http.Header { return s.header }

func (s *statusWriter) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return len(b), nil
}

func (s *statusWriter) WriteHeader(status int) {
	if s.wroteHeader {
		return
	}
	s.status = status
	s.wroteHeader = true
}

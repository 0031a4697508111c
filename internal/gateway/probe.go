package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ErrTooManyRedirects is returned when a probe exceeds the redirect budget.
var ErrTooManyRedirects = errors.New("too many redirects")

const (
	// DefaultUserAgent mimics a browser; some hosts reject unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	maxRedirects = 10
	maxBodyRead  = 1 << 20
)

// ProbeResult is the raw outcome of probing one URL.
type ProbeResult struct {
	Method string
	// StatusCode is the status of the last response, zero on transport failure.
	StatusCode int
	// FirstRedirect is the status of the first redirect hop, zero if none was followed.
	FirstRedirect int
	FinalURL      string
	Err           error
	Elapsed       time.Duration
}

// Prober checks whether a URL is reachable.
type Prober interface {
	Probe(ctx context.Context, rawURL string) ProbeResult
}

// HTTPProber probes URLs with a HEAD request, falling back to GET when the
// HEAD response is a client or server error.
type HTTPProber struct {
	client    *http.Client
	userAgent string
	logger    *log.Logger
}

// NewHTTPProber creates a prober whose every request is bounded by timeout.
func NewHTTPProber(timeout time.Duration, userAgent string, logger *log.Logger) *HTTPProber {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPProber{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logger,
	}
}

// Probe issues HEAD and, if that reports a status >= 400, a single GET.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) ProbeResult {
	res := p.do(ctx, http.MethodHead, rawURL)
	if res.Err != nil || res.StatusCode < http.StatusBadRequest {
		return res
	}
	p.logger.Printf("HEAD %s returned %d, retrying with GET", rawURL, res.StatusCode)
	elapsed := res.Elapsed
	res = p.do(ctx, http.MethodGet, rawURL)
	res.Elapsed += elapsed
	return res
}

func (p *HTTPProber) do(ctx context.Context, method, rawURL string) ProbeResult {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return ProbeResult{Method: method, Err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", acceptHeader)

	// The client is copied so the redirect hook can record this request's chain.
	firstRedirect := 0
	client := *p.client
	client.CheckRedirect = func(next *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return ErrTooManyRedirects
		}
		if firstRedirect == 0 && next.Response != nil {
			firstRedirect = next.Response.StatusCode
		}
		return nil
	}

	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return ProbeResult{Method: method, Err: fmt.Errorf("%s request: %w", method, err), Elapsed: elapsed}
	}
	defer resp.Body.Close()

	// Drain part of the body so keep-alive connections can be reused.
	if method == http.MethodGet {
		_, _ = io.CopyN(io.Discard, resp.Body, maxBodyRead)
	}

	return ProbeResult{
		Method:        method,
		StatusCode:    resp.StatusCode,
		FirstRedirect: firstRedirect,
		FinalURL:      resp.Request.URL.String(),
		Elapsed:       elapsed,
	}
}

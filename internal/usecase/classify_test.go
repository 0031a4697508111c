package usecase

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naka-gawa/readme-health/internal/domain"
	"github.com/naka-gawa/readme-health/internal/gateway"
)

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com", NormalizeURL("example.com"))
	assert.Equal(t, "http://example.com", NormalizeURL("http://example.com"))
	assert.Equal(t, "https://example.com/x", NormalizeURL("https://example.com/x"))
}

func TestClassifyLink(t *testing.T) {
	link := domain.Link{Text: "Docs", URL: "https://docs.example.com"}

	testCases := []struct {
		name       string
		res        gateway.ProbeResult
		status     domain.LinkStatus
		statusCode int
		message    string
	}{
		{
			name:       "200 is ok",
			res:        gateway.ProbeResult{StatusCode: 200, FinalURL: link.URL},
			status:     domain.LinkOK,
			statusCode: 200,
			message:    "OK",
		},
		{
			name:       "followed 301 is a redirect to the final location",
			res:        gateway.ProbeResult{StatusCode: 200, FirstRedirect: 301, FinalURL: "https://new.example.com/"},
			status:     domain.LinkRedirect,
			statusCode: 301,
			message:    "redirected to: https://new.example.com/",
		},
		{
			name:       "unfollowed 3xx is a redirect",
			res:        gateway.ProbeResult{StatusCode: 304, FinalURL: link.URL},
			status:     domain.LinkRedirect,
			statusCode: 304,
			message:    "redirected to: " + link.URL,
		},
		{
			name:       "404 fails",
			res:        gateway.ProbeResult{StatusCode: 404},
			status:     domain.LinkFailed,
			statusCode: 404,
			message:    "HTTP 404",
		},
		{
			name:       "other 2xx fails",
			res:        gateway.ProbeResult{StatusCode: 204},
			status:     domain.LinkFailed,
			statusCode: 204,
			message:    "HTTP 204",
		},
		{
			name:    "deadline is a timeout",
			res:     gateway.ProbeResult{Err: fmt.Errorf("HEAD request: %w", context.DeadlineExceeded)},
			status:  domain.LinkFailed,
			message: "request timed out",
		},
		{
			name:    "client timeout is a timeout",
			res:     gateway.ProbeResult{Err: &url.Error{Op: "Head", URL: link.URL, Err: timeoutErr{}}},
			status:  domain.LinkFailed,
			message: "request timed out",
		},
		{
			name:    "redirect loop",
			res:     gateway.ProbeResult{Err: &url.Error{Op: "Head", URL: link.URL, Err: gateway.ErrTooManyRedirects}},
			status:  domain.LinkFailed,
			message: "too many redirects",
		},
		{
			name:    "refused connection",
			res:     gateway.ProbeResult{Err: &url.Error{Op: "Head", URL: link.URL, Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}},
			status:  domain.LinkFailed,
			message: "connection failed",
		},
		{
			name:    "unknown host",
			res:     gateway.ProbeResult{Err: &url.Error{Op: "Head", URL: link.URL, Err: &net.DNSError{Err: "no such host", Name: "docs.example.com"}}},
			status:  domain.LinkFailed,
			message: "connection failed",
		},
		{
			name:    "anything else",
			res:     gateway.ProbeResult{Err: errors.New("boom")},
			status:  domain.LinkFailed,
			message: "error: boom",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := ClassifyLink(link, tc.res)

			assert.Equal(t, link.Text, rec.Text)
			assert.Equal(t, link.URL, rec.URL)
			assert.Equal(t, tc.status, rec.Status)
			assert.Equal(t, tc.statusCode, rec.StatusCode)
			assert.Equal(t, tc.message, rec.Message)
		})
	}
}

func TestClassifyRepoError(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		status  domain.RepoStatus
		message string
	}{
		{name: "not found", err: fmt.Errorf("%w: x", gateway.ErrNotFound), status: domain.RepoNotFound, message: "repository not found or deleted"},
		{name: "rate limited", err: fmt.Errorf("%w: x", gateway.ErrRateLimited), status: domain.RepoRateLimited, message: "API rate limit hit, set GITHUB_TOKEN"},
		{name: "status", err: &gateway.StatusError{StatusCode: 502}, status: domain.RepoError, message: "HTTP 502"},
		{name: "transport", err: errors.New("request failed: dial tcp"), status: domain.RepoError, message: "request failed: dial tcp"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, message := ClassifyRepoError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.message, message)
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

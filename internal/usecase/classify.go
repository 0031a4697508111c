package usecase

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/naka-gawa/readme-health/internal/domain"
	"github.com/naka-gawa/readme-health/internal/gateway"
)

// NormalizeURL prepends https:// to a URL without a network scheme.
func NormalizeURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// ClassifyLink turns a probe outcome into a LinkRecord.
//
//	200                       -> ok (redirect if a redirect chain was followed)
//	300-399                   -> redirect, message names the final location
//	anything else             -> failed
func ClassifyLink(link domain.Link, res gateway.ProbeResult) domain.LinkRecord {
	rec := domain.LinkRecord{
		Text:    link.Text,
		URL:     link.URL,
		Elapsed: res.Elapsed,
	}

	if res.Err != nil {
		rec.Status = domain.LinkFailed
		rec.Message = transportMessage(res.Err)
		return rec
	}

	rec.StatusCode = res.StatusCode
	switch {
	case res.StatusCode == http.StatusOK && res.FirstRedirect != 0:
		rec.Status = domain.LinkRedirect
		rec.StatusCode = res.FirstRedirect
		rec.Message = "redirected to: " + res.FinalURL
	case res.StatusCode == http.StatusOK:
		rec.Status = domain.LinkOK
		rec.Message = "OK"
	case res.StatusCode >= 300 && res.StatusCode < 400:
		rec.Status = domain.LinkRedirect
		rec.Message = "redirected to: " + res.FinalURL
	default:
		rec.Status = domain.LinkFailed
		rec.Message = fmt.Sprintf("HTTP %d", res.StatusCode)
	}
	return rec
}

func transportMessage(err error) string {
	var netErr net.Error
	var opErr *net.OpError
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "request timed out"
	case errors.Is(err, gateway.ErrTooManyRedirects):
		return "too many redirects"
	case errors.As(err, &opErr), errors.As(err, &dnsErr):
		return "connection failed"
	default:
		return "error: " + err.Error()
	}
}

// ClassifyRepoError turns a gateway failure into the matching status and message.
func ClassifyRepoError(err error) (domain.RepoStatus, string) {
	var statusErr *gateway.StatusError
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		return domain.RepoNotFound, "repository not found or deleted"
	case errors.Is(err, gateway.ErrRateLimited):
		return domain.RepoRateLimited, "API rate limit hit, set GITHUB_TOKEN"
	case errors.As(err, &statusErr):
		return domain.RepoError, statusErr.Error()
	default:
		return domain.RepoError, err.Error()
	}
}

// Package gateway provides access to the network: plain HTTP probing of
// arbitrary links and the GitHub REST and GraphQL metadata APIs.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/readme-health/internal/domain"
)

// DefaultAPIURL is the base path of the hosted metadata API.
const DefaultAPIURL = "https://api.github.com/"

// RepoFetcher defines the behavior of a gateway for fetching repository metadata.
type RepoFetcher interface {
	FetchRepository(ctx context.Context, owner, repo string) (*domain.RepoMetadata, error)
	// FetchLatestRelease returns the tag of the latest published release.
	FetchLatestRelease(ctx context.Context, owner, repo string) (string, error)
}

// APIConfig holds what is needed to talk to the metadata API.
// Token is optional; an empty token means unauthenticated requests.
type APIConfig struct {
	Token   string
	Timeout time.Duration
}

// NewAPIHTTPClient builds the HTTP client shared by the REST and GraphQL gateways.
// Secondary rate limits are detected and logged but never waited on.
func NewAPIHTTPClient(cfg APIConfig, logger *log.Logger) (*http.Client, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil,
		github_ratelimit.WithSingleSleepLimit(0, func(cbContext *github_ratelimit.CallbackContext) {
			if cbContext.SleepUntil != nil {
				logger.Printf("Secondary rate limit hit, resets at %s; not waiting.", cbContext.SleepUntil.Format(time.RFC3339))
				return
			}
			logger.Println("Secondary rate limit hit; not waiting.")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if cfg.Token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
		}
	}
	return &http.Client{Transport: transport, Timeout: cfg.Timeout}, nil
}

// GitHubGateway is the REST implementation of the RepoFetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(httpClient *http.Client, baseURL string, logger *log.Logger) (*GitHubGateway, error) {
	restClient := github.NewClient(httpClient)
	if baseURL != "" && baseURL != DefaultAPIURL {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", baseURL, err)
		}
		restClient.BaseURL = u
	}
	return &GitHubGateway{restClient: restClient, logger: logger}, nil
}

func (g *GitHubGateway) FetchRepository(ctx context.Context, owner, repo string) (*domain.RepoMetadata, error) {
	g.logger.Printf("REST: fetching repository %s/%s", owner, repo)
	r, resp, err := g.restClient.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, apiError(resp, err)
	}

	meta := &domain.RepoMetadata{
		Archived: r.GetArchived(),
		PushedAt: r.GetPushedAt().Time,
		Stars:    r.GetStargazersCount(),
		Forks:    r.GetForksCount(),
		License:  "Unknown",
	}
	if id := r.GetLicense().GetSPDXID(); id != "" {
		meta.License = id
	}
	return meta, nil
}

func (g *GitHubGateway) FetchLatestRelease(ctx context.Context, owner, repo string) (string, error) {
	g.logger.Printf("REST: fetching latest release of %s/%s", owner, repo)
	rel, resp, err := g.restClient.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return "", apiError(resp, err)
	}
	return rel.GetTagName(), nil
}

// apiError maps a go-github failure onto the gateway's error vocabulary.
func apiError(resp *github.Response, err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	if resp == nil {
		return fmt.Errorf("request failed: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return fmt.Errorf("failed to decode response: %w", err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	default:
		return &StatusError{StatusCode: resp.StatusCode}
	}
}

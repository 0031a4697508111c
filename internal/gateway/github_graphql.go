package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/readme-health/internal/domain"
)

// repositoryQuery fetches the fields needed to classify a repository.
type repositoryQuery struct {
	Repository struct {
		IsArchived     bool
		PushedAt       githubv4.DateTime
		StargazerCount int
		ForkCount      int
		LicenseInfo    struct {
			SpdxID string `graphql:"spdxId"`
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type latestReleaseQuery struct {
	Repository struct {
		LatestRelease struct {
			TagName string
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

var non200Status = regexp.MustCompile(`non-200 OK status code: (\d{3})`)

// GraphQLGateway is the GraphQL implementation of the RepoFetcher interface.
// The GraphQL API refuses anonymous calls, so it needs a token.
type GraphQLGateway struct {
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// NewGraphQLGateway creates a gateway on top of an authenticated client.
// A non-default baseURL selects an Enterprise endpoint.
func NewGraphQLGateway(httpClient *http.Client, baseURL string, logger *log.Logger) *GraphQLGateway {
	client := githubv4.NewClient(httpClient)
	if baseURL != "" && baseURL != DefaultAPIURL {
		client = githubv4.NewEnterpriseClient(strings.TrimSuffix(baseURL, "/")+"/graphql", httpClient)
	}
	return &GraphQLGateway{graphqlClient: client, logger: logger}
}

func (g *GraphQLGateway) FetchRepository(ctx context.Context, owner, repo string) (*domain.RepoMetadata, error) {
	g.logger.Printf("GraphQL: fetching repository %s/%s", owner, repo)
	var q repositoryQuery
	if err := g.graphqlClient.Query(ctx, &q, repoVariables(owner, repo)); err != nil {
		return nil, graphqlError(err)
	}

	r := q.Repository
	meta := &domain.RepoMetadata{
		Archived: r.IsArchived,
		PushedAt: r.PushedAt.Time,
		Stars:    r.StargazerCount,
		Forks:    r.ForkCount,
		License:  "Unknown",
	}
	if r.LicenseInfo.SpdxID != "" {
		meta.License = r.LicenseInfo.SpdxID
	}
	return meta, nil
}

func (g *GraphQLGateway) FetchLatestRelease(ctx context.Context, owner, repo string) (string, error) {
	g.logger.Printf("GraphQL: fetching latest release of %s/%s", owner, repo)
	var q latestReleaseQuery
	if err := g.graphqlClient.Query(ctx, &q, repoVariables(owner, repo)); err != nil {
		return "", graphqlError(err)
	}
	return q.Repository.LatestRelease.TagName, nil
}

func repoVariables(owner, repo string) map[string]interface{} {
	return map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(repo),
	}
}

// graphqlError maps GraphQL failures onto the same vocabulary as the REST gateway.
// The client only exposes them as messages.
func graphqlError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Could not resolve to a Repository"):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case strings.Contains(strings.ToLower(msg), "rate limit"):
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	if m := non200Status.FindStringSubmatch(msg); m != nil {
		code, _ := strconv.Atoi(m[1])
		switch code {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		default:
			return &StatusError{StatusCode: code}
		}
	}
	return fmt.Errorf("failed to execute GraphQL query: %w", err)
}

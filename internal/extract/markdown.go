// Package extract pulls links and hosted repository references out of Markdown text.
package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/naka-gawa/readme-health/internal/domain"
)

// DefaultRepoHost is the code-hosting domain whose table rows are inspected.
const DefaultRepoHost = "github.com"

var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^\)]+)\)`)

// Links returns the deduplicated inline Markdown links of text, sorted by URL
// then label. Anchor-only and scheme-less relative URLs are dropped.
func Links(text string) []domain.Link {
	var links []domain.Link
	for _, m := range linkPattern.FindAllStringSubmatch(text, -1) {
		// [label](url "title") keeps only the destination.
		fields := strings.Fields(m[2])
		if len(fields) == 0 {
			continue
		}
		if !IsNetworkURL(fields[0]) {
			continue
		}
		links = append(links, domain.Link{Text: m[1], URL: fields[0]})
	}
	return dedupe(links)
}

// All merges Markdown links and inline HTML anchors.
func All(text string) []domain.Link {
	return dedupe(append(Links(text), HTMLLinks(text)...))
}

// IsNetworkURL reports whether raw is an absolute http(s) URL.
func IsNetworkURL(raw string) bool {
	if strings.HasPrefix(raw, "#") {
		return false
	}
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

func dedupe(links []domain.Link) []domain.Link {
	seen := make(map[domain.Link]struct{}, len(links))
	out := make([]domain.Link, 0, len(links))
	for _, l := range links {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].URL != out[j].URL {
			return out[i].URL < out[j].URL
		}
		return out[i].Text < out[j].Text
	})
	return out
}

// RepoExtractor finds table rows linking to repositories on a single host.
type RepoExtractor struct {
	host    string
	row     *regexp.Regexp
	repoURL *regexp.Regexp
}

// NewRepoExtractor builds an extractor for host, e.g. "github.com".
func NewRepoExtractor(host string) (*RepoExtractor, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("repository host is empty")
	}
	h := regexp.QuoteMeta(host)
	return &RepoExtractor{
		host:    host,
		row:     regexp.MustCompile(`\|\s*([^|]+?)\s*\|\s*\[([^\]]+)\]\((https://` + h + `/[^)]+)\)`),
		repoURL: regexp.MustCompile(`^https?://` + h + `/([^/?#]+)/([^/?#]+)`),
	}, nil
}

// Rows returns one RepoRef per table row whose second cell links to a
// repository, in document order. The first cell is the display name.
func (e *RepoExtractor) Rows(text string) []domain.RepoRef {
	seen := make(map[string]struct{})
	var refs []domain.RepoRef
	for _, m := range e.row.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		url := strings.TrimSpace(m[3])
		owner, repo, ok := e.ParseRepoURL(url)
		if !ok {
			continue
		}
		key := name + "\x00" + url
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		refs = append(refs, domain.RepoRef{Name: name, URL: url, Owner: owner, Repo: repo})
	}
	return refs
}

// ParseRepoURL splits a repository URL into owner and name.
func (e *RepoExtractor) ParseRepoURL(url string) (owner, repo string, ok bool) {
	m := e.repoURL.FindStringSubmatch(url)
	if m == nil {
		return "", "", false
	}
	owner, repo = m[1], strings.TrimSuffix(m[2], ".git")
	if owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}

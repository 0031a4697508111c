package extract

import (
	"fmt"
	"regexp"

	"github.com/naka-gawa/readme-health/internal/domain"
)

// Rules skips URLs matching any of a set of regular expressions.
// The zero value and a nil *Rules match nothing.
type Rules struct {
	patterns []*regexp.Regexp
}

// NewRules compiles the ignore patterns.
func NewRules(patterns []string) (*Rules, error) {
	r := &Rules{}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}
	return r, nil
}

// Match reports whether url should be skipped.
func (r *Rules) Match(url string) bool {
	if r == nil {
		return false
	}
	for _, re := range r.patterns {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

// FilterLinks drops ignored links.
func (r *Rules) FilterLinks(links []domain.Link) []domain.Link {
	out := make([]domain.Link, 0, len(links))
	for _, l := range links {
		if !r.Match(l.URL) {
			out = append(out, l)
		}
	}
	return out
}

// FilterRepos drops ignored repository rows.
func (r *Rules) FilterRepos(refs []domain.RepoRef) []domain.RepoRef {
	out := make([]domain.RepoRef, 0, len(refs))
	for _, ref := range refs {
		if !r.Match(ref.URL) {
			out = append(out, ref)
		}
	}
	return out
}

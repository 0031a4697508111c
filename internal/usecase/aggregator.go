// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"
	"sort"

	"github.com/naka-gawa/readme-health/internal/domain"
	"github.com/naka-gawa/readme-health/internal/extract"
)

// Options selects which checks to run.
type Options struct {
	Links bool
	Repos bool
}

// Observer receives progress while the checks run.
type Observer interface {
	LinksFound(total, ignored int)
	LinkChecked(done, total int, rec domain.LinkRecord)
	ReposFound(total, ignored int)
	RepoChecked(done, total int, rec domain.RepoRecord)
}

// Result holds every record produced by one run.
// Links are sorted by URL then label; repos keep document order.
type Result struct {
	Links        []domain.LinkRecord
	Repos        []domain.RepoRecord
	LinksChecked bool
	ReposChecked bool
}

// Failed reports whether any link failed or any repository is missing or errored.
func (r *Result) Failed() bool {
	for _, l := range r.Links {
		if l.IsFailure() {
			return true
		}
	}
	for _, rp := range r.Repos {
		if rp.IsFailure() {
			return true
		}
	}
	return false
}

// ExitCode is 1 when Failed, 0 otherwise.
func (r *Result) ExitCode() int {
	if r.Failed() {
		return 1
	}
	return 0
}

// Aggregator is the use case for checking a document.
// It orchestrates extraction, link verification and repository inspection.
type Aggregator struct {
	verifier  *Verifier
	inspector *Inspector
	repos     *extract.RepoExtractor
	rules     *extract.Rules
	observer  Observer
	logger    *log.Logger
}

// NewAggregator creates a new Aggregator instance. rules and observer may be nil.
func NewAggregator(verifier *Verifier, inspector *Inspector, repos *extract.RepoExtractor, rules *extract.Rules, observer Observer, logger *log.Logger) *Aggregator {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Aggregator{
		verifier:  verifier,
		inspector: inspector,
		repos:     repos,
		rules:     rules,
		observer:  observer,
		logger:    logger,
	}
}

// Aggregate runs the selected checks against document.
// Every failure ends up in a record; nothing here returns an error.
func (a *Aggregator) Aggregate(ctx context.Context, document string, opts Options) *Result {
	a.logger.Println("Usecase: Starting document check...")
	result := &Result{}

	if opts.Links {
		found := extract.All(document)
		links := a.rules.FilterLinks(found)
		a.observer.LinksFound(len(links), len(found)-len(links))

		result.Links = SortLinkRecords(a.verifier.Verify(ctx, links, a.observer.LinkChecked))
		result.LinksChecked = true
	}

	if opts.Repos {
		found := a.repos.Rows(document)
		refs := a.rules.FilterRepos(found)
		a.observer.ReposFound(len(refs), len(found)-len(refs))

		result.Repos = a.inspector.Inspect(ctx, refs, a.observer.RepoChecked)
		result.ReposChecked = true
	}

	a.logger.Println("Usecase: Document check complete.")
	return result
}

// SortLinkRecords returns a copy of records sorted by URL then label.
func SortLinkRecords(records []domain.LinkRecord) []domain.LinkRecord {
	sorted := make([]domain.LinkRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].URL != sorted[j].URL {
			return sorted[i].URL < sorted[j].URL
		}
		return sorted[i].Text < sorted[j].Text
	})
	return sorted
}

type nopObserver struct{}

func (nopObserver) LinksFound(int, int)                     {}
func (nopObserver) LinkChecked(int, int, domain.LinkRecord) {}
func (nopObserver) ReposFound(int, int)                     {}
func (nopObserver) RepoChecked(int, int, domain.RepoRecord) {}

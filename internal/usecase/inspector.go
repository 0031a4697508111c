package usecase

import (
	"context"
	"log"
	"time"

	"github.com/naka-gawa/readme-health/internal/domain"
	"github.com/naka-gawa/readme-health/internal/gateway"
)

// DefaultRepoDelay is the pause between the end of one repository check and
// the start of the next.
const DefaultRepoDelay = 500 * time.Millisecond

// RepoProgressFunc is called once per inspected repository, in input order.
type RepoProgressFunc func(done, total int, rec domain.RepoRecord)

// Inspector classifies repositories one at a time.
type Inspector struct {
	fetcher gateway.RepoFetcher
	delay   time.Duration
	now     func() time.Time
	logger  *log.Logger
}

// NewInspector creates an Inspector that waits delay between repositories.
// A zero delay disables waiting.
func NewInspector(fetcher gateway.RepoFetcher, delay time.Duration, logger *log.Logger) *Inspector {
	return &Inspector{
		fetcher: fetcher,
		delay:   delay,
		now:     time.Now,
		logger:  logger,
	}
}

// Inspect checks refs sequentially and returns one record per ref, in order.
func (i *Inspector) Inspect(ctx context.Context, refs []domain.RepoRef, progress RepoProgressFunc) []domain.RepoRecord {
	i.logger.Printf("Usecase: inspecting %d repositories...", len(refs))
	records := make([]domain.RepoRecord, 0, len(refs))
	for n, ref := range refs {
		var rec domain.RepoRecord
		if err := i.pause(ctx, n); err != nil {
			rec = domain.RepoRecord{Name: ref.Name, URL: ref.URL, Status: domain.RepoError, Message: err.Error()}
		} else {
			rec = i.InspectOne(ctx, ref)
		}
		records = append(records, rec)
		if progress != nil {
			progress(n+1, len(refs), rec)
		}
	}
	i.logger.Println("Usecase: repository inspection complete.")
	return records
}

// pause sleeps for the delay before every check but the first.
// It returns early with the context's error.
func (i *Inspector) pause(ctx context.Context, n int) error {
	if n == 0 || i.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(i.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// InspectOne queries metadata and the latest release of a single repository.
func (i *Inspector) InspectOne(ctx context.Context, ref domain.RepoRef) domain.RepoRecord {
	rec := domain.RepoRecord{Name: ref.Name, URL: ref.URL}

	meta, err := i.fetcher.FetchRepository(ctx, ref.Owner, ref.Repo)
	if err != nil {
		i.logger.Printf("Metadata query for %s failed: %v", ref.FullName(), err)
		rec.Status, rec.Message = ClassifyRepoError(err)
		return rec
	}

	rec.MetadataFetched = true
	rec.Stars = meta.Stars
	rec.Forks = meta.Forks
	rec.License = meta.License
	rec.LastPush = meta.PushedAt
	if !meta.PushedAt.IsZero() {
		rec.DaysSinceUpdate = int(i.now().Sub(meta.PushedAt) / (24 * time.Hour))
	}

	switch {
	case meta.Archived:
		rec.Status = domain.RepoArchived
		rec.Message = "repository is archived"
	case meta.PushedAt.IsZero():
		rec.Status = domain.RepoInactive
		rec.Message = "no pushes recorded"
	case rec.DaysSinceUpdate < domain.InactiveAfterDays:
		rec.Status = domain.RepoActive
		rec.Message = "OK"
	default:
		rec.Status = domain.RepoInactive
		rec.Message = "OK"
	}

	// A missing release is normal; any failure just leaves the tag empty.
	tag, err := i.fetcher.FetchLatestRelease(ctx, ref.Owner, ref.Repo)
	if err != nil {
		i.logger.Printf("Release query for %s failed: %v", ref.FullName(), err)
	} else {
		rec.LatestRelease = tag
	}
	return rec
}

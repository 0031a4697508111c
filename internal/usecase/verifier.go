package usecase

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/readme-health/internal/domain"
	"github.com/naka-gawa/readme-health/internal/gateway"
)

// DefaultWorkers is the size of the link verification pool.
const DefaultWorkers = 10

// LinkProgressFunc is called once per completed link check, in completion order.
type LinkProgressFunc func(done, total int, rec domain.LinkRecord)

// Verifier checks links on a bounded pool of workers.
type Verifier struct {
	prober  gateway.Prober
	workers int
	logger  *log.Logger
}

// NewVerifier creates a new Verifier instance.
func NewVerifier(prober gateway.Prober, workers int, logger *log.Logger) *Verifier {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Verifier{prober: prober, workers: workers, logger: logger}
}

// Verify checks every link with at most v.workers requests in flight and
// returns once all of them have finished. Records come back in completion
// order, which is not the input order; callers that need a stable order
// must sort. A failing link never stops the others.
func (v *Verifier) Verify(ctx context.Context, links []domain.Link, progress LinkProgressFunc) []domain.LinkRecord {
	v.logger.Printf("Usecase: verifying %d links with %d workers...", len(links), v.workers)

	results := make(chan domain.LinkRecord, len(links))

	var g errgroup.Group
	g.SetLimit(v.workers)
	go func() {
		for _, link := range links {
			link := link
			g.Go(func() error {
				res := v.prober.Probe(ctx, NormalizeURL(link.URL))
				results <- ClassifyLink(link, res)
				return nil
			})
		}
		// Tasks never return errors; Wait only drains the pool.
		_ = g.Wait()
		close(results)
	}()

	records := make([]domain.LinkRecord, 0, len(links))
	for rec := range results {
		records = append(records, rec)
		if progress != nil {
			progress(len(records), len(links), rec)
		}
	}

	v.logger.Println("Usecase: link verification complete.")
	return records
}

package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/naka-gawa/readme-health/internal/domain"
	"github.com/naka-gawa/readme-health/internal/usecase"
)

//go:embed templates/health_report.html.tmpl
var templateFS embed.FS

var healthTemplate = template.Must(
	template.New("health_report.html.tmpl").
		Funcs(template.FuncMap{"badge": badgeClass}).
		ParseFS(templateFS, "templates/health_report.html.tmpl"),
)

type healthPage struct {
	GeneratedAt  string
	LinksChecked bool
	ReposChecked bool
	LinkStats    domain.LinkStats
	RepoStats    domain.RepoStats
	Latency      Latency
	FailedLinks  []domain.LinkRecord
	Repos        []domain.RepoRecord
}

// WriteHTMLReport renders the HTML health report for result.
// Sections for checks that did not run are omitted.
func WriteHTMLReport(w io.Writer, result *usecase.Result, generatedAt time.Time) error {
	page := healthPage{
		GeneratedAt:  generatedAt.Format(TimestampLayout),
		LinksChecked: result.LinksChecked,
		ReposChecked: result.ReposChecked,
		LinkStats:    domain.CountLinks(result.Links),
		RepoStats:    domain.CountRepos(result.Repos),
		Latency:      LinkLatency(result.Links),
		Repos:        result.Repos,
	}
	for _, r := range usecase.SortLinkRecords(result.Links) {
		if r.IsFailure() {
			page.FailedLinks = append(page.FailedLinks, r)
		}
	}

	if err := healthTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}

func badgeClass(status domain.RepoStatus) string {
	switch status {
	case domain.RepoActive:
		return "badge-active"
	case domain.RepoInactive:
		return "badge-inactive"
	case domain.RepoArchived:
		return "badge-archived"
	default:
		return "badge-error"
	}
}

// WriteFile creates path and hands it to render.
func WriteFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

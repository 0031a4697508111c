// Package report renders check results for the terminal, as Markdown and as HTML.
// Rendering is pure formatting; every decision was made by the usecase layer.
package report

import (
	"fmt"
	"io"

	"github.com/naka-gawa/readme-health/internal/domain"
	"github.com/naka-gawa/readme-health/internal/usecase"
)

// Palette holds the escape sequences used to colour console output.
type Palette struct {
	Green, Red, Yellow, Blue, Cyan, Reset string
}

var (
	ansiPalette  = Palette{Green: "\033[92m", Red: "\033[91m", Yellow: "\033[93m", Blue: "\033[94m", Cyan: "\033[96m", Reset: "\033[0m"}
	plainPalette = Palette{}
)

const rule = "================================================================================"

// Console writes progress and the final summary to a terminal.
// It implements usecase.Observer.
type Console struct {
	w io.Writer
	p Palette
}

// NewConsole creates a Console; color selects ANSI escapes.
func NewConsole(w io.Writer, color bool) *Console {
	p := plainPalette
	if color {
		p = ansiPalette
	}
	return &Console{w: w, p: p}
}

// Section prints a highlighted banner.
func (c *Console) Section(title string) {
	fmt.Fprintf(c.w, "%s%s%s\n", c.p.Cyan, rule, c.p.Reset)
	fmt.Fprintf(c.w, "%s%s%s\n", c.p.Cyan, title, c.p.Reset)
	fmt.Fprintf(c.w, "%s%s%s\n\n", c.p.Cyan, rule, c.p.Reset)
}

// Info prints a highlighted status line.
func (c *Console) Info(format string, args ...interface{}) {
	fmt.Fprintf(c.w, "%s%s%s\n\n", c.p.Blue, fmt.Sprintf(format, args...), c.p.Reset)
}

// Done prints a success line, e.g. after a report file was written.
func (c *Console) Done(format string, args ...interface{}) {
	fmt.Fprintf(c.w, "%s✓ %s%s\n", c.p.Green, fmt.Sprintf(format, args...), c.p.Reset)
}

func (c *Console) LinksFound(total, ignored int) {
	fmt.Fprintf(c.w, "Found %d unique links", total)
	if ignored > 0 {
		fmt.Fprintf(c.w, " (%d ignored)", ignored)
	}
	fmt.Fprint(c.w, "\n\n")
}

func (c *Console) LinkChecked(done, total int, rec domain.LinkRecord) {
	fmt.Fprintf(c.w, "[%d/%d] %s %s\n", done, total, c.linkSymbol(rec.Status), rec.URL)
}

func (c *Console) ReposFound(total, ignored int) {
	fmt.Fprintf(c.w, "Found %d repositories", total)
	if ignored > 0 {
		fmt.Fprintf(c.w, " (%d ignored)", ignored)
	}
	fmt.Fprint(c.w, "\n\n")
}

func (c *Console) RepoChecked(done, total int, rec domain.RepoRecord) {
	fmt.Fprintf(c.w, "[%d/%d] %s (%s)\n", done, total, rec.Name, rec.URL)
	switch rec.Status {
	case domain.RepoActive:
		fmt.Fprintf(c.w, "  %s✓ active%s - %d stars, last push %s\n", c.p.Green, c.p.Reset, rec.Stars, rec.LastPush.Format("2006-01-02"))
	case domain.RepoInactive:
		if rec.LastPush.IsZero() {
			fmt.Fprintf(c.w, "  %s⚠ inactive%s - %s\n", c.p.Yellow, c.p.Reset, rec.Message)
			break
		}
		fmt.Fprintf(c.w, "  %s⚠ inactive%s - no push for %d days\n", c.p.Yellow, c.p.Reset, rec.DaysSinceUpdate)
	case domain.RepoArchived:
		fmt.Fprintf(c.w, "  %s✗ archived%s\n", c.p.Red, c.p.Reset)
	default:
		fmt.Fprintf(c.w, "  %s✗ %s%s\n", c.p.Red, rec.Message, c.p.Reset)
	}
}

// Summary prints counts and per-category listings for links, then the
// repositories that need attention.
func (c *Console) Summary(result *usecase.Result) {
	if result.LinksChecked {
		c.linkSummary(result.Links)
	}
	if result.ReposChecked {
		c.repoSummary(result.Repos)
	}
}

func (c *Console) linkSummary(records []domain.LinkRecord) {
	s := domain.CountLinks(records)

	fmt.Fprintf(c.w, "\n%s\nLink check report\n%s\n", rule, rule)
	fmt.Fprintf(c.w, "\nTotal: %d links\n", s.Total)
	fmt.Fprintf(c.w, "%s✓ OK: %d%s\n", c.p.Green, s.OK, c.p.Reset)
	fmt.Fprintf(c.w, "%s⚠ Redirect: %d%s\n", c.p.Yellow, s.Redirect, c.p.Reset)
	fmt.Fprintf(c.w, "%s✗ Failed: %d%s\n", c.p.Red, s.Failed, c.p.Reset)
	fmt.Fprintf(c.w, "Latency: %s\n", LinkLatency(records))

	c.linkSection(records, domain.LinkOK, "OK links", c.p.Green, s.OK)
	c.linkSection(records, domain.LinkRedirect, "Redirected links", c.p.Yellow, s.Redirect)
	c.linkSection(records, domain.LinkFailed, "Failed links", c.p.Red, s.Failed)

	fmt.Fprintf(c.w, "\n%s\n", rule)
}

func (c *Console) linkSection(records []domain.LinkRecord, status domain.LinkStatus, title, color string, count int) {
	if count == 0 {
		return
	}
	fmt.Fprintf(c.w, "\n%s%s\n%s (%d)\n%s%s\n", color, rule, title, count, rule, c.p.Reset)
	for _, r := range records {
		if r.Status == status {
			fmt.Fprintf(c.w, "%s [%s](%s) - %s\n", plainSymbols[status], r.Text, r.URL, r.Message)
		}
	}
}

func (c *Console) repoSummary(records []domain.RepoRecord) {
	s := domain.CountRepos(records)
	fmt.Fprintf(c.w, "\nRepositories: %d total, %d active, %d inactive, %d archived, %d not found, %d rate limited, %d errors\n",
		s.Total, s.Active, s.Inactive, s.Archived, s.NotFound, s.RateLimited, s.Errors)

	var attention []domain.RepoRecord
	for _, r := range records {
		if r.Status != domain.RepoActive {
			attention = append(attention, r)
		}
	}
	if len(attention) == 0 {
		return
	}
	fmt.Fprintf(c.w, "\n%s⚠ %d repositories need attention:%s\n", c.p.Yellow, len(attention), c.p.Reset)
	for _, r := range attention {
		fmt.Fprintf(c.w, "  - %s: %s - %s\n", r.Name, r.Status, r.Message)
	}
}

func (c *Console) linkSymbol(status domain.LinkStatus) string {
	switch status {
	case domain.LinkOK:
		return c.p.Green + "✓" + c.p.Reset
	case domain.LinkRedirect:
		return c.p.Yellow + "⚠" + c.p.Reset
	default:
		return c.p.Red + "✗" + c.p.Reset
	}
}

var plainSymbols = map[domain.LinkStatus]string{
	domain.LinkOK:       "✓",
	domain.LinkRedirect: "⚠",
	domain.LinkFailed:   "✗",
}

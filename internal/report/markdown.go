package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/naka-gawa/readme-health/internal/domain"
	"github.com/naka-gawa/readme-health/internal/usecase"
)

// TimestampLayout is used for every "generated at" line.
const TimestampLayout = "2006-01-02 15:04:05"

// WriteLinkReport writes the Markdown link report: counts, then failed,
// redirected and OK links.
func WriteLinkReport(w io.Writer, records []domain.LinkRecord, generatedAt time.Time) error {
	records = usecase.SortLinkRecords(records)
	s := domain.CountLinks(records)

	var b strings.Builder
	b.WriteString("# Link check report\n\n")
	fmt.Fprintf(&b, "**Generated at**: %s\n\n", generatedAt.Format(TimestampLayout))
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Total: %d links\n", s.Total)
	fmt.Fprintf(&b, "- ✅ OK: %d\n", s.OK)
	fmt.Fprintf(&b, "- ⚠️ Redirect: %d\n", s.Redirect)
	fmt.Fprintf(&b, "- ❌ Failed: %d\n", s.Failed)
	fmt.Fprintf(&b, "- Latency: %s\n\n", LinkLatency(records))

	writeLinkList(&b, records, domain.LinkFailed, "## ❌ Failed links", s.Failed)
	writeLinkList(&b, records, domain.LinkRedirect, "## ⚠️ Redirected links", s.Redirect)
	writeLinkList(&b, records, domain.LinkOK, "## ✅ OK links", s.OK)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeLinkList(b *strings.Builder, records []domain.LinkRecord, status domain.LinkStatus, heading string, count int) {
	if count == 0 {
		return
	}
	b.WriteString(heading + "\n\n")
	for _, r := range records {
		if r.Status != status {
			continue
		}
		// Failure messages already carry the code.
		if r.Status == domain.LinkRedirect && r.HasStatusCode() {
			fmt.Fprintf(b, "- [%s](%s) - %s (%d)\n", r.Text, usecase.NormalizeURL(r.URL), r.Message, r.StatusCode)
		} else {
			fmt.Fprintf(b, "- [%s](%s) - %s\n", r.Text, usecase.NormalizeURL(r.URL), r.Message)
		}
	}
	b.WriteString("\n")
}

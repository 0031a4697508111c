package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/naka-gawa/readme-health/internal/domain"
)

// HTMLLinks returns the deduplicated <a href> anchors embedded as raw HTML
// in Markdown text. The anchor text becomes the label; an anchor without
// text is labelled with its URL.
func HTMLLinks(text string) []domain.Link {
	z := html.NewTokenizer(strings.NewReader(text))

	var (
		links   []domain.Link
		href    string
		inside  bool
		caption strings.Builder
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way we are done.
			return dedupe(links)
		case html.StartTagToken:
			tok := z.Token()
			if tok.Data != "a" {
				continue
			}
			href, inside = "", true
			caption.Reset()
			for _, a := range tok.Attr {
				if strings.EqualFold(a.Key, "href") {
					href = strings.TrimSpace(a.Val)
				}
			}
		case html.TextToken:
			if inside {
				caption.Write(z.Text())
			}
		case html.EndTagToken:
			tok := z.Token()
			if tok.Data != "a" || !inside {
				continue
			}
			inside = false
			if !IsNetworkURL(href) {
				continue
			}
			label := strings.Join(strings.Fields(caption.String()), " ")
			if label == "" {
				label = href
			}
			links = append(links, domain.Link{Text: label, URL: href})
		}
	}
}

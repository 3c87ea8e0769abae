package source

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/trendscout/internal/model"
)

const (
	// maxExtractedChars caps the composed text to bound memory and the
	// downstream prompt size.
	maxExtractedChars = 3000

	maxHeadings     = 10
	maxParagraphs   = 20
	minParagraphLen = 30
	minLinkLabelLen = 10
)

// Generic summarizes an arbitrary web page as a single item: title,
// leading headings, and substantial paragraphs. It has no notion of
// entries or engagement.
type Generic struct {
	fetch Fetcher
}

// NewGeneric creates the generic adapter over f.
func NewGeneric(f Fetcher) *Generic {
	return &Generic{fetch: f}
}

func (s *Generic) Name() model.SourceType { return model.SourceGeneric }

// Scrape returns exactly one item for the page, or none when the fetch
// fails. Keywords and timeWindow are unused: a page is what it is.
func (s *Generic) Scrape(ctx context.Context, targetURL string, _ []string, _ string) []model.ContentItem {
	html, ok := s.fetch.Fetch(ctx, targetURL, nil)
	if !ok {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		zap.L().Debug("generic: html parse failed", zap.String("url", targetURL), zap.Error(err))
		return nil
	}

	// Boilerplate carries no content signal and pollutes extraction.
	doc.Find("script, style, nav, footer, header").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = targetURL
	}

	var headings []string
	doc.Find("h1, h2, h3").Each(func(_ int, h *goquery.Selection) {
		if text := strings.TrimSpace(h.Text()); text != "" {
			headings = append(headings, text)
		}
	})
	if len(headings) > maxHeadings {
		headings = headings[:maxHeadings]
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); len(text) > minParagraphLen {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > maxParagraphs {
		paragraphs = paragraphs[:maxParagraphs]
	}

	linkCount := 0
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if len(strings.TrimSpace(a.Text())) > minLinkLabelLen {
			linkCount++
		}
	})

	lines := make([]string, 0, 1+len(headings)+len(paragraphs))
	lines = append(lines, "# "+title)
	for _, h := range headings {
		lines = append(lines, "## "+h)
	}
	lines = append(lines, paragraphs...)

	text := strings.Join(lines, "\n\n")
	if len(text) > maxExtractedChars {
		text = text[:maxExtractedChars]
	}

	return []model.ContentItem{{
		ID:            uuid.New().String(),
		Source:        model.SourceGeneric,
		URL:           targetURL,
		Title:         title,
		ExtractedText: text,
		Engagement:    map[string]int64{},
		RawMetadata: map[string]any{
			"headings":   headings,
			"link_count": linkCount,
		},
	}}
}

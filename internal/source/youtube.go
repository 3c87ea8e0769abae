package source

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/trendscout/internal/model"
)

// YouTube video IDs are always 11 characters; the raw-text fallback
// rejects anything else.
const videoIDLength = 11

var (
	// ytInitialData is embedded in a script tag; the assignment shape
	// varies between page builds, so two patterns are tried in order.
	ytDataPrimary   = regexp.MustCompile(`(?s)var ytInitialData\s*=\s*(\{.*?\});</script>`)
	ytDataAlternate = regexp.MustCompile(`(?s)ytInitialData\s*=\s*(\{.*?\});\s*</script>`)

	// ytVideoIDPair pairs an id-like token with an adjacent text label
	// in the raw page source. Loose on purpose: it is the last resort
	// when the embedded JSON is missing or malformed.
	ytVideoIDPair = regexp.MustCompile(`"videoId":"([^"]+)".*?"text":"([^"]*?)"`)
)

// YouTube scrapes video search results from the embedded ytInitialData
// JSON document, falling back to raw-text scanning when the JSON is
// absent or unparsable.
type YouTube struct {
	fetch Fetcher
}

// NewYouTube creates the youtube adapter over f.
func NewYouTube(f Fetcher) *YouTube {
	return &YouTube{fetch: f}
}

func (s *YouTube) Name() model.SourceType { return model.SourceYouTube }

// Scrape fetches the target page, or a synthesized search results page
// when targetURL is not a YouTube URL, and extracts up to 20 videos.
func (s *YouTube) Scrape(ctx context.Context, targetURL string, keywords []string, timeWindow string) []model.ContentItem {
	page := targetURL
	if !strings.Contains(targetURL, "youtube.com") && !strings.Contains(targetURL, "youtu.be") {
		query := url.QueryEscape(strings.Join(keywords, " "))
		page = "https://www.youtube.com/results?search_query=" + query
	}

	html, ok := s.fetch.Fetch(ctx, page, nil)
	if !ok {
		return nil
	}

	items := s.extractInitialData(html)
	if len(items) == 0 {
		items = s.scanRawText(html)
	}
	return items
}

// ytRuns is the joined-run text shape used throughout ytInitialData.
type ytRuns struct {
	Runs []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

func (r ytRuns) join() string {
	parts := make([]string, 0, len(r.Runs))
	for _, run := range r.Runs {
		parts = append(parts, run.Text)
	}
	return strings.Join(parts, " ")
}

type ytSimpleText struct {
	SimpleText string `json:"simpleText"`
}

type ytVideoRenderer struct {
	VideoID           string       `json:"videoId"`
	Title             ytRuns       `json:"title"`
	OwnerText         ytRuns       `json:"ownerText"`
	ViewCountText     ytSimpleText `json:"viewCountText"`
	PublishedTimeText ytSimpleText `json:"publishedTimeText"`

	DetailedMetadataSnippets []struct {
		SnippetText ytRuns `json:"snippetText"`
	} `json:"detailedMetadataSnippets"`
}

// ytInitialData mirrors the fixed field path down to search entries.
// Missing or reshaped levels simply decode to zero values, which walk
// as empty lists.
type ytInitialData struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []struct {
						ItemSectionRenderer struct {
							Contents []struct {
								VideoRenderer *ytVideoRenderer `json:"videoRenderer"`
							} `json:"contents"`
						} `json:"itemSectionRenderer"`
					} `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

// extractInitialData locates and parses the embedded JSON document and
// walks it down to the video entries.
func (s *YouTube) extractInitialData(html string) []model.ContentItem {
	m := ytDataPrimary.FindStringSubmatch(html)
	if m == nil {
		m = ytDataAlternate.FindStringSubmatch(html)
	}
	if m == nil {
		return nil
	}

	var data ytInitialData
	if err := json.Unmarshal([]byte(m[1]), &data); err != nil {
		zap.L().Debug("youtube: ytInitialData parse failed", zap.Error(err))
		return nil
	}

	var items []model.ContentItem
	sections := data.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents
	for _, section := range sections {
		for _, entry := range section.ItemSectionRenderer.Contents {
			video := entry.VideoRenderer
			if video == nil {
				continue
			}

			viewText := video.ViewCountText.SimpleText
			if viewText == "" {
				viewText = "0 views"
			}

			snippet := ""
			if len(video.DetailedMetadataSnippets) > 0 {
				snippet = video.DetailedMetadataSnippets[0].SnippetText.join()
			}
			title := video.Title.join()
			if snippet == "" {
				snippet = title
			}

			items = append(items, model.ContentItem{
				ID:            uuid.New().String(),
				Source:        model.SourceYouTube,
				URL:           "https://www.youtube.com/watch?v=" + video.VideoID,
				Title:         title,
				Author:        video.OwnerText.join(),
				PublishedAt:   video.PublishedTimeText.SimpleText,
				ExtractedText: snippet,
				Engagement:    map[string]int64{"views": parseCompactCount(viewText)},
				RawMetadata:   map[string]any{"video_id": video.VideoID, "view_text": viewText},
			})
			if len(items) >= maxItemsPerPage {
				return items
			}
		}
	}
	return items
}

// scanRawText pairs videoId tokens with nearby text labels in the raw
// page source. Quality is lower than the structured path, so entries
// with malformed ids or trivial titles are rejected.
func (s *YouTube) scanRawText(html string) []model.ContentItem {
	var items []model.ContentItem
	seen := make(map[string]bool)

	for _, m := range ytVideoIDPair.FindAllStringSubmatch(html, -1) {
		videoID, title := m[1], m[2]
		if seen[videoID] || len(videoID) != videoIDLength {
			continue
		}
		seen[videoID] = true
		if len(title) < 5 {
			continue
		}

		items = append(items, model.ContentItem{
			ID:            uuid.New().String(),
			Source:        model.SourceYouTube,
			URL:           "https://www.youtube.com/watch?v=" + videoID,
			Title:         title,
			ExtractedText: title,
			Engagement:    map[string]int64{"views": 0},
			RawMetadata:   map[string]any{"video_id": videoID},
		})
		if len(items) >= maxItemsPerPage {
			break
		}
	}
	return items
}

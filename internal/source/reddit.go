package source

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/trendscout/internal/model"
)

// deletedAuthor is the sentinel for posts whose author element is gone.
const deletedAuthor = "[deleted]"

// redditTimeBuckets maps our time-window hints to old-reddit search
// buckets. Reddit has no 14d/30d granularity, so both collapse to
// "month"; unmapped windows default to "week".
var redditTimeBuckets = map[string]string{
	"24h": "day",
	"7d":  "week",
	"14d": "month",
	"30d": "month",
}

// Reddit scrapes post listings from old.reddit.com, which still serves
// server-rendered markup with stable-ish class names.
type Reddit struct {
	fetch Fetcher
}

// NewReddit creates the reddit adapter over f.
func NewReddit(f Fetcher) *Reddit {
	return &Reddit{fetch: f}
}

func (s *Reddit) Name() model.SourceType { return model.SourceReddit }

// Scrape fetches the target (rewritten to old.reddit.com) or a
// synthesized search page and extracts up to 20 posts.
func (s *Reddit) Scrape(ctx context.Context, targetURL string, keywords []string, timeWindow string) []model.ContentItem {
	var page string
	if strings.Contains(targetURL, "reddit.com") {
		page = strings.Replace(targetURL, "www.reddit.com", "old.reddit.com", 1)
	} else {
		bucket, ok := redditTimeBuckets[timeWindow]
		if !ok {
			bucket = "week"
		}
		query := url.QueryEscape(strings.Join(keywords, " "))
		page = "https://old.reddit.com/search?q=" + query + "&sort=relevance&t=" + bucket
	}

	html, ok := s.fetch.Fetch(ctx, page, nil)
	if !ok {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		zap.L().Debug("reddit: html parse failed", zap.String("url", page), zap.Error(err))
		return nil
	}

	posts := doc.Find("div.thing.link")
	if posts.Length() == 0 {
		// Search result pages and redesigned listings drop the classes
		// but keep the fullname attribute.
		posts = doc.Find("[data-fullname]")
	}

	var items []model.ContentItem
	posts.EachWithBreak(func(_ int, post *goquery.Selection) bool {
		if item, ok := s.extractPost(post); ok {
			items = append(items, item)
		}
		return len(items) < maxItemsPerPage
	})
	return items
}

// extractPost pulls one post out of its listing element. Posts without
// an extractable title are discarded; every other field degrades to a
// zero value.
func (s *Reddit) extractPost(post *goquery.Selection) (model.ContentItem, bool) {
	titleEl := post.Find("a.title, a.search-title").First()
	title := strings.TrimSpace(titleEl.Text())
	if title == "" {
		return model.ContentItem{}, false
	}

	postURL, _ := titleEl.Attr("href")
	if postURL != "" && !strings.HasPrefix(postURL, "http") {
		postURL = "https://old.reddit.com" + postURL
	}

	author := strings.TrimSpace(post.Find("a.author").First().Text())
	if author == "" {
		author = deletedAuthor
	}

	score := parseCompactCount(post.Find("div.score.unvoted, span.score.unvoted").First().Text())
	comments := firstInt(post.Find("a.comments").First().Text())
	published, _ := post.Find("time").First().Attr("datetime")
	subreddit := strings.TrimSpace(post.Find("a.subreddit").First().Text())

	return model.ContentItem{
		ID:            uuid.New().String(),
		Source:        model.SourceReddit,
		URL:           postURL,
		Title:         title,
		Author:        author,
		PublishedAt:   published,
		ExtractedText: title,
		Engagement:    map[string]int64{"score": score, "comments": comments},
		RawMetadata:   map[string]any{"subreddit": subreddit},
	}, true
}

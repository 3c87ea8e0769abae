// Package ranker turns a heterogeneous item set plus a keyword set
// into an ordered, bounded result list. Engagement, recency, and
// keyword overlap are each normalized to [0,1] before weighting, since
// raw metrics are not comparable across sources.
package ranker

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/trendscout/internal/model"
)

// DefaultLimit is the result count used when the caller passes none.
const DefaultLimit = 10

// Composite weights. Keyword overlap slightly outranks recency because
// an off-topic fresh item is worth less than an on-topic older one.
const (
	weightEngagement = 0.40
	weightRecency    = 0.25
	weightKeywords   = 0.35
)

var leadingInt = regexp.MustCompile(`\d+`)

// Rank scores every item, writes the composite into RelevanceScore
// (rounded to 4 decimals), and returns the top items sorted by
// descending score. Ties keep input order. Never fails: empty input
// yields an empty list.
func Rank(items []model.ContentItem, keywords []string, limit int) []model.ContentItem {
	return rankAt(items, keywords, limit, time.Now().UTC())
}

func rankAt(items []model.ContentItem, keywords []string, limit int, now time.Time) []model.ContentItem {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(items) == 0 {
		return []model.ContentItem{}
	}

	ranked := make([]model.ContentItem, len(items))
	copy(ranked, items)

	for i := range ranked {
		score := weightEngagement*engagementScore(ranked[i]) +
			weightRecency*recencyScore(ranked[i].PublishedAt, now) +
			weightKeywords*keywordScore(ranked[i], keywords)
		ranked[i].RelevanceScore = math.Round(score*10000) / 10000
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	zap.L().Debug("ranker: ranked items",
		zap.Int("input", len(items)),
		zap.Int("selected", len(ranked)),
	)
	return ranked
}

// engagementScore maps raw engagement onto [0,1] with per-source step
// tiers. Steps rather than a continuous normalization: raw counts are
// spiky and the scale differs by an order of magnitude per source.
func engagementScore(item model.ContentItem) float64 {
	switch item.Source {
	case model.SourceYouTube:
		views := item.Engagement["views"]
		switch {
		case views >= 1_000_000:
			return 1.0
		case views >= 100_000:
			return 0.8
		case views >= 10_000:
			return 0.6
		case views >= 1_000:
			return 0.4
		case views >= 100:
			return 0.2
		}
		return 0.1

	case model.SourceReddit:
		// Comments weigh double: discussion is a stronger signal than
		// a drive-by upvote.
		combined := item.Engagement["score"] + 2*item.Engagement["comments"]
		switch {
		case combined >= 5000:
			return 1.0
		case combined >= 1000:
			return 0.8
		case combined >= 500:
			return 0.6
		case combined >= 100:
			return 0.4
		case combined >= 10:
			return 0.2
		}
		return 0.1
	}

	// No engagement signal available for generic pages.
	return 0.3
}

// recencyScore handles both timestamp shapes adapters produce:
// relative phrases ("2 days ago") and ISO-8601 strings.
func recencyScore(publishedAt string, now time.Time) float64 {
	if publishedAt == "" {
		return 0.3
	}

	phrase := strings.ToLower(publishedAt)
	switch {
	case strings.Contains(phrase, "hour") || strings.Contains(phrase, "minute"):
		return 1.0
	case strings.Contains(phrase, "day"):
		days := 1
		if m := leadingInt.FindString(phrase); m != "" {
			days, _ = strconv.Atoi(m)
		}
		switch {
		case days <= 1:
			return 1.0
		case days <= 3:
			return 0.8
		case days <= 7:
			return 0.6
		}
		return 0.4
	case strings.Contains(phrase, "week"):
		return 0.4
	case strings.Contains(phrase, "month"):
		return 0.2
	case strings.Contains(phrase, "year"):
		return 0.05
	}

	t, err := parseISO(publishedAt)
	if err != nil {
		return 0.3
	}
	ageDays := int(now.Sub(t).Hours() / 24)
	switch {
	case ageDays <= 1:
		return 1.0
	case ageDays <= 7:
		return 0.7
	case ageDays <= 30:
		return 0.4
	}
	return 0.1
}

// parseISO accepts full RFC3339 timestamps (trailing Z means UTC) and
// bare dates.
func parseISO(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// keywordScore is the case-insensitive overlap between the keyword set
// and the item's title plus extracted text. The 1.2 multiplier lets
// partial-but-strong matches reach the ceiling without requiring every
// keyword to hit.
func keywordScore(item model.ContentItem, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0.5
	}

	text := strings.ToLower(item.Title + " " + item.ExtractedText)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			matches++
		}
	}
	return math.Min(1.0, 1.2*float64(matches)/float64(len(keywords)))
}

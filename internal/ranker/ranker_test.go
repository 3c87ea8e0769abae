package ranker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trendscout/internal/model"
)

var rankNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func ytItem(views int64) model.ContentItem {
	return model.ContentItem{
		Source:     model.SourceYouTube,
		Engagement: map[string]int64{"views": views},
	}
}

func redditItem(score, comments int64) model.ContentItem {
	return model.ContentItem{
		Source:     model.SourceReddit,
		Engagement: map[string]int64{"score": score, "comments": comments},
	}
}

func TestEngagementTiersYouTube(t *testing.T) {
	cases := []struct {
		views int64
		want  float64
	}{
		{2_000_000, 1.0},
		{1_000_000, 1.0},
		{150_000, 0.8},
		{10_000, 0.6},
		{5_000, 0.4},
		{100, 0.2},
		{99, 0.1},
		{0, 0.1},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, engagementScore(ytItem(tc.views)), 1e-9, "views %d", tc.views)
	}
}

func TestEngagementTiersReddit(t *testing.T) {
	cases := []struct {
		score, comments int64
		want            float64
	}{
		{5000, 0, 1.0},
		{1000, 2000, 1.0}, // 1000 + 2*2000 = 5000
		{900, 100, 0.8},   // 1100
		{400, 50, 0.6},    // 500
		{80, 10, 0.4},     // 100
		{8, 1, 0.2},       // 10
		{5, 2, 0.1},       // 9
	}
	for _, tc := range cases {
		got := engagementScore(redditItem(tc.score, tc.comments))
		assert.InDelta(t, tc.want, got, 1e-9, "score=%d comments=%d", tc.score, tc.comments)
	}
}

func TestEngagementGenericIsNeutral(t *testing.T) {
	item := model.ContentItem{Source: model.SourceGeneric}
	assert.InDelta(t, 0.3, engagementScore(item), 1e-9)

	// Unknown tags get the same neutral treatment.
	item.Source = model.SourceType("podcast")
	assert.InDelta(t, 0.3, engagementScore(item), 1e-9)
}

func TestRecencyRelativePhrases(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0.3},
		{"10 hours ago", 1.0},
		{"32 minutes ago", 1.0},
		{"1 day ago", 1.0},
		{"2 days ago", 0.8},
		{"Streamed 3 days ago", 0.8},
		{"5 days ago", 0.6},
		{"12 days ago", 0.4},
		{"1 week ago", 0.4},
		{"2 months ago", 0.2},
		{"3 years ago", 0.05},
		{"a while back", 0.3},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, recencyScore(tc.in, rankNow), 1e-9, "input %q", tc.in)
	}
}

func TestRecencyISOTimestamps(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{rankNow.Add(-6 * time.Hour).Format(time.RFC3339), 1.0},
		{rankNow.AddDate(0, 0, -5).Format(time.RFC3339), 0.7},
		{rankNow.AddDate(0, 0, -20).Format(time.RFC3339), 0.4},
		{rankNow.AddDate(0, -6, 0).Format(time.RFC3339), 0.1},
		{"2026-08-29", 1.0},
		{"not-a-timestamp", 0.3},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, recencyScore(tc.in, rankNow), 1e-9, "input %q", tc.in)
	}
}

func TestKeywordOverlap(t *testing.T) {
	item := model.ContentItem{
		Title:         "Go Concurrency Patterns",
		ExtractedText: "Pipelines and cancellation with goroutines.",
	}

	// No keywords means a neutral midpoint, not zero.
	assert.InDelta(t, 0.5, keywordScore(item, nil), 1e-9)

	// One of two matches: 1.2 * 1/2 = 0.6.
	assert.InDelta(t, 0.6, keywordScore(item, []string{"concurrency", "kubernetes"}), 1e-9)

	// Matching is case-insensitive over title and body.
	assert.InDelta(t, 1.0, keywordScore(item, []string{"GO", "goroutines"}), 1e-9)

	// The boost is capped at 1.0.
	assert.InDelta(t, 1.0, keywordScore(item, []string{"go", "concurrency", "pipelines"}), 1e-9)
}

func TestRankOrdersByCompositeScore(t *testing.T) {
	viral := ytItem(2_000_000)
	viral.ID = "viral"
	viral.Title = "go concurrency deep dive"
	viral.PublishedAt = "2 days ago"

	stale := redditItem(40, 2)
	stale.ID = "stale"
	stale.Title = "unrelated cooking thread"
	stale.PublishedAt = "2 months ago"

	fresh := redditItem(600, 150)
	fresh.ID = "fresh"
	fresh.Title = "go generics in production"
	fresh.PublishedAt = "5 hours ago"

	ranked := rankAt([]model.ContentItem{stale, viral, fresh}, []string{"go"}, 10, rankNow)

	require.Len(t, ranked, 3)
	assert.Equal(t, "viral", ranked[0].ID)
	assert.Equal(t, "fresh", ranked[1].ID)
	assert.Equal(t, "stale", ranked[2].ID)

	// viral: 0.40*1.0 + 0.25*0.8 + 0.35*1.0 = 0.95
	assert.InDelta(t, 0.95, ranked[0].RelevanceScore, 1e-9)
	// fresh: 0.40*0.8 + 0.25*1.0 + 0.35*1.0 = 0.92
	assert.InDelta(t, 0.92, ranked[1].RelevanceScore, 1e-9)
	// stale: 0.40*0.2 + 0.25*0.2 + 0.35*0 = 0.13
	assert.InDelta(t, 0.13, ranked[2].RelevanceScore, 1e-9)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].RelevanceScore, ranked[i].RelevanceScore)
	}
}

func TestRankScoresRoundedToFourDecimals(t *testing.T) {
	item := model.ContentItem{
		Source:        model.SourceGeneric,
		Title:         "only one of three keywords",
		PublishedAt:   "2 days ago",
		ExtractedText: "alpha",
	}
	ranked := rankAt([]model.ContentItem{item}, []string{"alpha", "beta", "gamma"}, 10, rankNow)
	require.Len(t, ranked, 1)

	// 0.40*0.3 + 0.25*0.8 + 0.35*(1.2/3) = 0.12 + 0.2 + 0.14 = 0.46
	assert.Equal(t, 0.46, ranked[0].RelevanceScore)

	frac := ranked[0].RelevanceScore * 10000
	assert.InDelta(t, frac, float64(int64(frac+0.5)), 1e-6)
}

func TestRankTruncatesAndDefaultsLimit(t *testing.T) {
	items := make([]model.ContentItem, 15)
	for i := range items {
		items[i] = ytItem(int64(i) * 1000)
		items[i].ID = fmt.Sprintf("item-%d", i)
	}

	assert.Len(t, rankAt(items, nil, 3, rankNow), 3)
	assert.Len(t, rankAt(items, nil, 0, rankNow), DefaultLimit)
	assert.Len(t, rankAt(items, nil, 50, rankNow), 15)
}

func TestRankStableForTies(t *testing.T) {
	a := ytItem(500)
	a.ID = "a"
	b := ytItem(600)
	b.ID = "b"
	c := ytItem(700)
	c.ID = "c"

	// Identical tier, recency, and keyword inputs: scores tie, input
	// order survives.
	ranked := rankAt([]model.ContentItem{a, b, c}, nil, 10, rankNow)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{ranked[0].ID, ranked[1].ID, ranked[2].ID})
}

func TestRankReturnsSubsetWithoutDuplicates(t *testing.T) {
	items := []model.ContentItem{ytItem(100), redditItem(50, 5), {Source: model.SourceGeneric}}
	for i := range items {
		items[i].ID = fmt.Sprintf("id-%d", i)
	}

	ranked := rankAt(items, []string{"x"}, 2, rankNow)
	require.Len(t, ranked, 2)

	seen := map[string]bool{}
	for _, item := range ranked {
		assert.False(t, seen[item.ID], "duplicate %s", item.ID)
		seen[item.ID] = true
	}
}

func TestRankEmptyInput(t *testing.T) {
	assert.Empty(t, rankAt(nil, []string{"x"}, 10, rankNow))
	assert.Empty(t, rankAt([]model.ContentItem{}, nil, 0, rankNow))
}

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceTypeValid(t *testing.T) {
	assert.True(t, SourceYouTube.Valid())
	assert.True(t, SourceReddit.Valid())
	assert.True(t, SourceGeneric.Valid())
	assert.False(t, SourceType("tiktok").Valid())
	assert.False(t, SourceType("").Valid())
}

func TestContentItemJSONRoundTrip(t *testing.T) {
	item := ContentItem{
		ID:            "abc",
		Source:        SourceReddit,
		URL:           "https://old.reddit.com/r/golang/comments/x/y",
		Title:         "Go 1.26 released",
		Author:        "gopher",
		PublishedAt:   "2026-08-01T10:00:00Z",
		ExtractedText: "Go 1.26 released",
		Engagement:    map[string]int64{"score": 420, "comments": 69},
		RawMetadata:   map[string]any{"subreddit": "r/golang"},
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	var back ContentItem
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, item.Title, back.Title)
	assert.Equal(t, int64(420), back.Engagement["score"])
	assert.Zero(t, back.RelevanceScore)
}

func TestPerceptionAllKeywords(t *testing.T) {
	p := Perception{
		Keywords:         []string{"ai", "agents"},
		ExpandedKeywords: []string{"llm"},
	}
	assert.Equal(t, []string{"ai", "agents", "llm"}, p.AllKeywords())

	assert.Empty(t, Perception{}.AllKeywords())
}

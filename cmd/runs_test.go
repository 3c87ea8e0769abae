package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/trendscout/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	runs := []model.RunRecord{
		{
			ID:        "8c0f6f0a-1111-2222-3333-444455556666",
			CreatedAt: time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC),
			Inputs:    model.RunInputs{Prompt: "ai agents in production"},
			SelectedResults: []model.ContentItem{
				{ID: "a"}, {ID: "b"}, {ID: "c"},
			},
			TotalScraped: 18,
			Errors:       []string{"reddit: timeout"},
		},
		{
			ID:        "d1e2f3a4-aaaa-bbbb-cccc-ddddeeeeffff",
			CreatedAt: time.Date(2026, 8, 27, 16, 5, 0, 0, time.UTC),
			Inputs:    model.RunInputs{Topic: "Why Interest Rates Shape Every Market Move Today"},
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)
	out := buf.String()

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "8c0f6f0a")
	assert.Contains(t, out, "ai agents in production")
	assert.Contains(t, out, "18")
	assert.Contains(t, out, "2026-08-28 09:30")
	// Script-only runs fall back to the topic, truncated for display.
	assert.Contains(t, out, "Why Interest Rates Shape Every Market...")
	assert.NotContains(t, out, "Move Today")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "8c0f6f0a", truncateID("8c0f6f0a-1111-2222-3333-444455556666"))
	assert.Equal(t, "short", truncateID("short"))
}

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trendscout/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleRun() *model.RunRecord {
	return &model.RunRecord{
		Inputs: model.RunInputs{
			Prompt:     "ai agents in production",
			TimeWindow: "7d",
			NumResults: 5,
		},
		Plan: model.Perception{
			Keywords:       []string{"ai", "agents"},
			Intent:         "trend_discovery",
			SourceStrategy: []string{"youtube", "reddit"},
		},
		SelectedResults: []model.ContentItem{
			{
				ID:             "item-1",
				Source:         model.SourceYouTube,
				URL:            "https://www.youtube.com/watch?v=abc",
				Title:          "Agents everywhere",
				Engagement:     map[string]int64{"views": 120000},
				RelevanceScore: 0.91,
			},
		},
		ReportMarkdown: "[HOOK]\nAgents are here.",
		Errors:         []string{"reddit: fetch failed"},
		TotalScraped:   14,
	}
}

func TestSQLite_SaveAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := sampleRun()
	require.NoError(t, st.SaveRun(ctx, rec))
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := st.GetRun(ctx, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "ai agents in production", got.Inputs.Prompt)
	assert.Equal(t, "trend_discovery", got.Plan.Intent)
	require.Len(t, got.SelectedResults, 1)
	assert.Equal(t, model.SourceYouTube, got.SelectedResults[0].Source)
	assert.InDelta(t, 0.91, got.SelectedResults[0].RelevanceScore, 1e-9)
	assert.Equal(t, int64(120000), got.SelectedResults[0].Engagement["views"])
	assert.Equal(t, []string{"reddit: fetch failed"}, got.Errors)
	assert.Equal(t, 14, got.TotalScraped)
}

func TestSQLite_SaveRunKeepsProvidedID(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := sampleRun()
	rec.ID = "fixed-id"
	rec.CreatedAt = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, st.SaveRun(ctx, rec))

	got, err := st.GetRun(ctx, "fixed-id")
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", got.ID)
	assert.True(t, got.CreatedAt.Equal(rec.CreatedAt))
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLite_ListRuns_NewestFirst(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := sampleRun()
		rec.ID = []string{"first", "second", "third"}[i]
		rec.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, st.SaveRun(ctx, rec))
	}

	runs, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "third", runs[0].ID)
	assert.Equal(t, "second", runs[1].ID)
	assert.Equal(t, "first", runs[2].ID)
}

func TestSQLite_ListRuns_LimitOffset(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := sampleRun()
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, st.SaveRun(ctx, rec))
	}

	runs, err := st.ListRuns(ctx, RunFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	page2, err := st.ListRuns(ctx, RunFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}

func TestSQLite_EmptyHistory(t *testing.T) {
	st := newTestSQLiteStore(t)

	runs, err := st.ListRuns(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestNew_DispatchesSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dispatch.db")
	st, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	_, ok := st.(*SQLiteStore)
	assert.True(t, ok)
}

package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trendscout/internal/model"
	"github.com/sells-group/trendscout/internal/ranker"
)

// Run executes a full research run: perceive, reason, act, generate
// the report, and track the record.
func (a *Agent) Run(ctx context.Context, p ResearchParams) (*ResearchResult, error) {
	timeWindow := p.TimeWindow
	if timeWindow == "" {
		timeWindow = defaultTimeWindow
	}
	numResults := p.NumResults
	if numResults <= 0 {
		numResults = ranker.DefaultLimit
	}
	duration := p.VideoDuration
	if duration == "" {
		duration = defaultVideoDuration
	}

	perception, err := a.Perceive(ctx, p.Prompt, p.TargetURLs)
	if err != nil {
		return nil, err
	}

	reasoning := BuildPlan(perception, p.TargetURLs, timeWindow)
	items, errs := a.scrapeAll(ctx, reasoning.ScrapePlan)
	ranked := ranker.Rank(items, reasoning.AllKeywords, numResults)

	report, err := a.GenerateScript(ctx, ScriptSpec{
		Topic:           p.Prompt,
		Category:        p.Category,
		VideoDuration:   duration,
		ResearchContext: buildResearchContext(ranked),
	})
	if err != nil {
		return nil, err
	}

	rec := &model.RunRecord{
		Inputs: model.RunInputs{
			TargetURLs:    p.TargetURLs,
			Prompt:        p.Prompt,
			TimeWindow:    timeWindow,
			Category:      p.Category,
			NumResults:    numResults,
			VideoDuration: duration,
		},
		Plan:            perception,
		SelectedResults: ranked,
		ReportMarkdown:  report,
		Errors:          errs,
		TotalScraped:    len(items),
	}
	if err := a.store.SaveRun(ctx, rec); err != nil {
		return nil, eris.Wrap(err, "agent: track run")
	}

	zap.L().Info("agent: research run complete",
		zap.String("run_id", rec.ID),
		zap.Int("total_scraped", len(items)),
		zap.Int("selected", len(ranked)),
	)

	return &ResearchResult{
		ReportMarkdown: report,
		Results:        ranked,
		StoredRecordID: rec.ID,
		TotalScraped:   len(items),
		Errors:         errs,
	}, nil
}

// RunTopics scrapes and ranks, then generates topic titles. No record
// is tracked at this step; the context snapshot travels with the
// result so a later script run can reuse it.
func (a *Agent) RunTopics(ctx context.Context, p TopicsParams) (*TopicsResult, error) {
	numTitles := p.NumTitles
	if numTitles <= 0 {
		numTitles = 3
	}

	topicPrompt := p.Prompt
	if strings.TrimSpace(topicPrompt) == "" {
		topicPrompt = fmt.Sprintf("trending %s content on YouTube", p.Category)
	}

	perception, err := a.Perceive(ctx, topicPrompt, p.TargetURLs)
	if err != nil {
		return nil, err
	}

	reasoning := BuildPlan(perception, p.TargetURLs, p.TimeWindow)
	items, _ := a.scrapeAll(ctx, reasoning.ScrapePlan)

	limit := numTitles * 3
	if limit < 10 {
		limit = 10
	}
	ranked := ranker.Rank(items, reasoning.AllKeywords, limit)
	snapshot := buildResearchContext(ranked)

	topics, err := a.GenerateTopics(ctx, TopicsSpec{
		Prompt:          p.Prompt,
		Category:        p.Category,
		NumTitles:       numTitles,
		ResearchContext: snapshot,
	})
	if err != nil {
		return nil, err
	}

	return &TopicsResult{
		Topics:          topics,
		ContextSnapshot: snapshot,
		Keywords:        reasoning.AllKeywords,
	}, nil
}

// RunScript generates a full script for a chosen topic and tracks the
// record.
func (a *Agent) RunScript(ctx context.Context, p ScriptParams) (*ScriptResult, error) {
	duration := p.VideoDuration
	if duration == "" {
		duration = "5 min"
	}

	script, err := a.GenerateScript(ctx, ScriptSpec{
		Topic:               p.Topic,
		Category:            p.Category,
		VideoDuration:       duration,
		BRollEnabled:        p.BRollEnabled,
		OnScreenTextEnabled: p.OnScreenTextEnabled,
		ResearchContext:     p.ContextSnapshot,
	})
	if err != nil {
		return nil, err
	}

	rec := &model.RunRecord{
		Inputs: model.RunInputs{
			Topic:               p.Topic,
			Category:            p.Category,
			VideoDuration:       duration,
			Prompt:              p.OriginalPrompt,
			BRollEnabled:        p.BRollEnabled,
			OnScreenTextEnabled: p.OnScreenTextEnabled,
		},
		SelectedResults: []model.ContentItem{},
		ReportMarkdown:  script,
		Errors:          []string{},
	}
	if err := a.store.SaveRun(ctx, rec); err != nil {
		return nil, eris.Wrap(err, "agent: track script run")
	}

	return &ScriptResult{
		Script:         script,
		StoredRecordID: rec.ID,
	}, nil
}

// Package agent implements the research loop: perceive the prompt into
// a plan, reason the plan into scrape tasks, act by scraping and
// ranking, and track the run in the store.
package agent

import (
	"context"

	"github.com/sells-group/trendscout/internal/model"
	"github.com/sells-group/trendscout/internal/source"
	"github.com/sells-group/trendscout/internal/store"
	"github.com/sells-group/trendscout/pkg/anthropic"
)

const (
	defaultTimeWindow    = "7d"
	defaultVideoDuration = "5-7 min"
	defaultConcurrency   = 4
)

// Generator is the LLM surface the agent needs. anthropic.Client
// satisfies it; tests substitute a double.
type Generator interface {
	CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error)
}

// Agent orchestrates research runs.
type Agent struct {
	llm         Generator
	sources     *source.Registry
	store       store.Store
	model       string
	concurrency int
}

// Options tune the agent.
type Options struct {
	// Model is the LLM model ID used for all generation phases.
	Model string

	// Concurrency bounds parallel scrape tasks. Zero means the default.
	Concurrency int
}

// New builds an agent over the given collaborators.
func New(llm Generator, sources *source.Registry, st store.Store, opts Options) *Agent {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Agent{
		llm:         llm,
		sources:     sources,
		store:       st,
		model:       opts.Model,
		concurrency: concurrency,
	}
}

// ResearchParams is the input to a full research run.
type ResearchParams struct {
	TargetURLs    []string
	Prompt        string
	TimeWindow    string
	Category      string
	NumResults    int
	VideoDuration string
}

// ResearchResult is the outcome of a full research run.
type ResearchResult struct {
	ReportMarkdown string              `json:"report_markdown"`
	Results        []model.ContentItem `json:"results"`
	StoredRecordID string              `json:"stored_record_id"`
	TotalScraped   int                 `json:"total_scraped"`
	Errors         []string            `json:"errors"`
}

// TopicsParams is the input to the topic-title step.
type TopicsParams struct {
	TargetURLs []string
	Prompt     string
	Category   string
	NumTitles  int
	TimeWindow string
}

// TopicsResult carries generated titles plus the research context they
// were grounded on, so a later script run can reuse it.
type TopicsResult struct {
	Topics          string   `json:"topics"`
	ContextSnapshot string   `json:"context_snapshot"`
	Keywords        []string `json:"keywords"`
}

// ScriptParams is the input to the script step.
type ScriptParams struct {
	Topic               string
	Category            string
	VideoDuration       string
	BRollEnabled        bool
	OnScreenTextEnabled bool
	ContextSnapshot     string
	OriginalPrompt      string
}

// ScriptResult is the outcome of the script step.
type ScriptResult struct {
	Script         string `json:"script"`
	StoredRecordID string `json:"stored_record_id"`
}

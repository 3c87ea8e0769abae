package model

import "time"

// RunInputs captures the request that started a research run.
type RunInputs struct {
	TargetURLs    []string `json:"target_urls,omitempty"`
	Prompt        string   `json:"prompt,omitempty"`
	Topic         string   `json:"topic,omitempty"`
	Category      string   `json:"category,omitempty"`
	TimeWindow    string   `json:"time_window,omitempty"`
	NumResults    int      `json:"num_results,omitempty"`
	VideoDuration string   `json:"video_duration,omitempty"`

	BRollEnabled        bool `json:"broll_enabled,omitempty"`
	OnScreenTextEnabled bool `json:"onscreen_text_enabled,omitempty"`
}

// Perception is the research plan produced by the perceive phase.
type Perception struct {
	Keywords         []string `json:"keywords"`
	Intent           string   `json:"intent"`
	ExpandedKeywords []string `json:"expanded_keywords"`
	SourceStrategy   []string `json:"source_strategy"`
	ResearchPlan     string   `json:"research_plan"`
}

// AllKeywords returns the original and expanded keyword sets merged.
func (p Perception) AllKeywords() []string {
	out := make([]string, 0, len(p.Keywords)+len(p.ExpandedKeywords))
	out = append(out, p.Keywords...)
	out = append(out, p.ExpandedKeywords...)
	return out
}

// RunRecord is the persisted history entry for one research run. The
// pipeline only populates SelectedResults with the top-ranked items;
// everything else scraped during the run is discarded.
type RunRecord struct {
	ID              string        `json:"id"`
	CreatedAt       time.Time     `json:"created_at"`
	Inputs          RunInputs     `json:"inputs"`
	Plan            Perception    `json:"plan"`
	SelectedResults []ContentItem `json:"selected_results"`
	ReportMarkdown  string        `json:"report_markdown"`
	Errors          []string      `json:"errors"`
	TotalScraped    int           `json:"total_scraped"`
}

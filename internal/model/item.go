// Package model defines the shared types exchanged between sources,
// the ranker, the agent, and the store.
package model

// SourceType identifies which extraction strategy produced an item and
// which engagement-scoring rule applies to it.
type SourceType string

const (
	SourceYouTube SourceType = "youtube"
	SourceReddit  SourceType = "reddit"
	SourceGeneric SourceType = "generic"
)

// Valid reports whether s is one of the known source types.
func (s SourceType) Valid() bool {
	switch s {
	case SourceYouTube, SourceReddit, SourceGeneric:
		return true
	}
	return false
}

// ContentItem is the normalized record produced by a source adapter.
// Adapters fail soft: absent data is represented by zero values, never
// by an error escaping the adapter for a single item.
type ContentItem struct {
	ID     string     `json:"id"`
	Source SourceType `json:"source"`
	URL    string     `json:"url"`
	Title  string     `json:"title"`
	Author string     `json:"author"`

	// PublishedAt is either a relative phrase ("2 days ago"), an
	// ISO-8601 timestamp, or empty, depending on the source.
	PublishedAt string `json:"published_at,omitempty"`

	// ExtractedText is the plain-text snippet used for keyword
	// matching and as generation context. Adapters cap its length.
	ExtractedText string `json:"extracted_text"`

	// Engagement maps metric names to values; its shape differs per
	// source: {views} for youtube, {score, comments} for reddit,
	// empty for generic pages.
	Engagement map[string]int64 `json:"engagement"`

	// RawMetadata carries source-specific auxiliary fields
	// (subreddit, heading list, ...). Informational only.
	RawMetadata map[string]any `json:"raw_metadata,omitempty"`

	// RelevanceScore is zero until the ranker writes the composite
	// score. Authoritative sort key after ranking.
	RelevanceScore float64 `json:"relevance_score"`
}

// ScrapeTask is one unit of the scrape plan: a source variant bound to
// a URL (or, when URL is empty, a keyword search) and a recency window.
type ScrapeTask struct {
	URL        string     `json:"url"`
	Source     SourceType `json:"source"`
	Keywords   []string   `json:"keywords"`
	TimeWindow string     `json:"time_window"`
}

package agent

import (
	"strings"

	"github.com/sells-group/trendscout/internal/model"
)

// Reasoning is the executable plan derived from a perception.
type Reasoning struct {
	ScrapePlan  []model.ScrapeTask
	AllKeywords []string
	Intent      string
}

// BuildPlan maps target URLs to source-classified scrape tasks. With no
// URLs, it emits one keyword-search task per strategy source instead.
func BuildPlan(p model.Perception, targetURLs []string, timeWindow string) Reasoning {
	if timeWindow == "" {
		timeWindow = defaultTimeWindow
	}

	sources := p.SourceStrategy
	if len(sources) == 0 {
		sources = []string{"youtube", "reddit"}
	}

	allKeywords := p.AllKeywords()

	plan := make([]model.ScrapeTask, 0, len(targetURLs)+len(sources))
	for _, url := range targetURLs {
		plan = append(plan, model.ScrapeTask{
			URL:        url,
			Source:     classifyURL(url),
			Keywords:   allKeywords,
			TimeWindow: timeWindow,
		})
	}

	if len(targetURLs) == 0 {
		for _, s := range sources {
			plan = append(plan, model.ScrapeTask{
				Source:     model.SourceType(s),
				Keywords:   allKeywords,
				TimeWindow: timeWindow,
			})
		}
	}

	intent := p.Intent
	if intent == "" {
		intent = "content_ideation"
	}

	return Reasoning{
		ScrapePlan:  plan,
		AllKeywords: allKeywords,
		Intent:      intent,
	}
}

func classifyURL(url string) model.SourceType {
	switch {
	case strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be"):
		return model.SourceYouTube
	case strings.Contains(url, "reddit.com"):
		return model.SourceReddit
	}
	return model.SourceGeneric
}

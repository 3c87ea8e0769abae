package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trendscout/internal/model"
	"github.com/sells-group/trendscout/pkg/anthropic"
)

const (
	perceiveTemperature = 0.3
	perceiveMaxTokens   = 800
)

const perceiveSystemPrompt = `You are an expert research planner. Analyze the user's research prompt and return a JSON object with:
- "keywords": list of 5-10 relevant search keywords/phrases
- "intent": one of "trend_discovery", "influencer_ranking", "content_ideation"
- "expanded_keywords": 5 additional semantically related keywords
- "source_strategy": list of sources to search, from ["youtube", "reddit", "generic"]
- "research_plan": brief description of the research approach

Return ONLY valid JSON, no markdown formatting or code blocks.`

// Perceive turns a free-text prompt into a structured research plan.
// A response that is not valid JSON falls back to a keyword heuristic;
// a transport or API failure surfaces as an error.
func (a *Agent) Perceive(ctx context.Context, prompt string, targetURLs []string) (model.Perception, error) {
	urls := "None (use keyword search)"
	if len(targetURLs) > 0 {
		encoded, err := json.Marshal(targetURLs)
		if err == nil {
			urls = string(encoded)
		}
	}
	userMsg := fmt.Sprintf("Research prompt: %q\nTarget URLs: %s", prompt, urls)

	temp := perceiveTemperature
	resp, err := a.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   perceiveMaxTokens,
		System:      []anthropic.SystemBlock{{Text: perceiveSystemPrompt}},
		Messages:    []anthropic.Message{{Role: "user", Content: userMsg}},
		Temperature: &temp,
	})
	if err != nil {
		return model.Perception{}, eris.Wrap(err, "agent: perceive")
	}
	resp.Usage.LogCost(a.model, "perceive")

	text := stripCodeFences(strings.TrimSpace(resp.Text()))

	var p model.Perception
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		zap.L().Debug("agent: perceive response not JSON, using fallback",
			zap.Error(err),
		)
		return fallbackPerception(prompt), nil
	}
	return p, nil
}

// fallbackPerception derives a minimal plan from the raw prompt words.
func fallbackPerception(prompt string) model.Perception {
	words := strings.Fields(strings.ToLower(prompt))
	if len(words) > 8 {
		words = words[:8]
	}
	return model.Perception{
		Keywords:         words,
		Intent:           "content_ideation",
		ExpandedKeywords: []string{},
		SourceStrategy:   []string{"youtube", "reddit"},
		ResearchPlan:     "Search for content related to: " + prompt,
	}
}

// stripCodeFences removes a surrounding markdown code block, with or
// without a language tag, from an LLM response.
func stripCodeFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[idx+1:]
	} else {
		text = text[3:]
	}
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

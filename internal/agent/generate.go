package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trendscout/internal/model"
	"github.com/sells-group/trendscout/pkg/anthropic"
)

const (
	topicsTemperature = 0.75
	topicsMaxTokens   = 500

	scriptTemperature = 0.72
	scriptMaxTokens   = 6000
)

const topicsSystemPrompt = `You are an expert YouTube title strategist.
Your job is to generate compelling, publish-ready YouTube video titles based on research data.

RULES:
- Output ONLY the numbered list. No commentary, no explanation, no markdown headers.
- Titles must be clear, specific, and clickable. Not clickbait, not vague.
- Each title should stand alone as a strong video concept.
- Match the tone and style appropriate to the category.`

// TopicsSpec is the input to topic-title generation.
type TopicsSpec struct {
	Prompt          string
	Category        string
	NumTitles       int
	ResearchContext string
}

// GenerateTopics produces a numbered list of video topic titles
// grounded on the research context.
func (a *Agent) GenerateTopics(ctx context.Context, spec TopicsSpec) (string, error) {
	topicSource := strings.TrimSpace(spec.Prompt)
	if topicSource == "" {
		topicSource = fmt.Sprintf("trending topics in the %s niche", spec.Category)
	}

	category := spec.Category
	if category == "" {
		category = "General"
	}
	research := spec.ResearchContext
	if research == "" {
		research = "No specific research data. Use your knowledge of the niche."
	}

	userPrompt := fmt.Sprintf(`Generate exactly %d YouTube video title(s) based on the following:

Topic focus: %s
Category: %s
Tone guidance: %s

Research context (use this as your factual foundation):
%s

Output format (strictly follow this):
1. [Title here]
2. [Title here]
...

Output only the numbered list. Nothing else.`,
		spec.NumTitles, topicSource, category,
		toneGuidance(spec.Category, spec.Prompt), research)

	temp := topicsTemperature
	resp, err := a.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   topicsMaxTokens,
		System:      []anthropic.SystemBlock{{Text: topicsSystemPrompt}},
		Messages:    []anthropic.Message{{Role: "user", Content: userPrompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", eris.Wrap(err, "agent: generate topics")
	}
	resp.Usage.LogCost(a.model, "topics")

	return strings.TrimSpace(resp.Text()), nil
}

// ScriptSpec is the input to script generation.
type ScriptSpec struct {
	Topic               string
	Category            string
	VideoDuration       string
	BRollEnabled        bool
	OnScreenTextEnabled bool
	ResearchContext     string
}

// GenerateScript produces a complete, section-labeled video script for
// the topic, grounded on the research context.
func (a *Agent) GenerateScript(ctx context.Context, spec ScriptSpec) (string, error) {
	duration := spec.VideoDuration
	if duration == "" {
		duration = "5 min"
	}

	brollInstruction := ""
	if spec.BRollEnabled {
		brollInstruction = "\n- At relevant moments, add B-Roll suggestions in brackets like: [B-Roll: aerial shot of city skyline]"
	}
	onscreenInstruction := ""
	if spec.OnScreenTextEnabled {
		onscreenInstruction = "\n- At high-impact moments, add on-screen text cues in brackets like: [TEXT: '3 MILLION jobs gone by 2027']"
	}

	systemPrompt := fmt.Sprintf(`You are an elite YouTube scriptwriter. Your scripts are used by top creators across every niche.

TONE: %s

SCRIPT FORMAT. Use these exact section labels:
[HOOK]
(10-20 seconds of gripping spoken content)

[INTRODUCTION]
(Set up the video's promise and context)

[MAIN]
(The core content. Depth scaled to video length)

[KEY INSIGHTS]
(The most memorable, shareable takeaways)

[CONCLUSION]
(Natural wrap-up. No forced "smash subscribe" unless it fits the tone)

CRITICAL RULES:
- Output ONLY the script. No meta commentary. No explanation of what you're doing.
- Write for spoken delivery. Natural rhythm. Varied sentence length.
- Use curiosity loops and open loops to hold viewer attention.
- Do NOT fabricate statistics. Only reference facts from the research context provided.
- Target script length: %s of spoken content.%s%s`,
		toneGuidance(spec.Category, spec.Topic), duration,
		brollInstruction, onscreenInstruction)

	category := spec.Category
	if category == "" {
		category = "General"
	}
	research := spec.ResearchContext
	if research == "" {
		research = "No specific research data. Draw on your knowledge of the topic."
	}

	userPrompt := fmt.Sprintf(`Write a complete YouTube video script for the following topic:

Title: %s
Category: %s
Target length: %s

Research context (base your facts on this):
%s

Remember: Output only the labeled script. Nothing else.`,
		spec.Topic, category, duration, research)

	temp := scriptTemperature
	resp, err := a.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   scriptMaxTokens,
		System:      []anthropic.SystemBlock{{Text: systemPrompt}},
		Messages:    []anthropic.Message{{Role: "user", Content: userPrompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", eris.Wrap(err, "agent: generate script")
	}
	resp.Usage.LogCost(a.model, "script")

	return strings.TrimSpace(resp.Text()), nil
}

var (
	financeSignals       = []string{"finance", "stock", "invest", "econom", "money", "budget", "crypto", "market"}
	entertainmentSignals = []string{"gaming", "game", "movie", "film", "entertainment", "lifestyle", "pop", "celebrity", "music"}
	educationSignals     = []string{"education", "learn", "how to", "tutorial", "science", "history", "explain", "technology", "tech"}
)

// toneGuidance picks delivery instructions from category and topic
// signal words.
func toneGuidance(category, prompt string) string {
	cat := strings.ToLower(category)
	p := strings.ToLower(prompt)

	switch {
	case cat == "finance" || cat == "economics" || containsAny(p, financeSignals):
		return "Informational, clear, confident, and authoritative. Still engaging and human. " +
			"Structured delivery. Avoid hype. Speak to someone smart who wants to understand, not be sold to."
	case cat == "gaming" || cat == "entertainment" || cat == "lifestyle" || containsAny(p, entertainmentSignals):
		return "Casual, energetic, conversational, and upbeat. High energy from the first second. " +
			"Talk like you're catching up with a friend who loves this stuff."
	case cat == "education" || cat == "technology" || containsAny(p, educationSignals):
		return "Clear, engaging, and accessible. Break complex ideas down simply. " +
			"Keep it interesting. Think Kurzgesagt or Veritasium energy."
	}
	return "Neutral but engaging and conversational. Friendly but credible. " +
		"Adjust naturally to however the topic feels as you write."
}

func containsAny(s string, signals []string) bool {
	for _, sig := range signals {
		if strings.Contains(s, sig) {
			return true
		}
	}
	return false
}

// buildResearchContext renders ranked items as the compact context
// lines fed to generation.
func buildResearchContext(items []model.ContentItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s [%s] | %s | %s",
			item.Title, item.Source,
			formatEngagement(item.Engagement),
			truncate(item.ExtractedText, 200)))
	}
	return strings.Join(lines, "\n")
}

func formatEngagement(eng map[string]int64) string {
	keys := make([]string, 0, len(eng))
	for k := range eng {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", k, eng[k]))
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

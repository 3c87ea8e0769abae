package source

import (
	"regexp"
	"strconv"
	"strings"
)

var digitRun = regexp.MustCompile(`\d+`)

// countLabels are trailing unit words stripped before numeric parsing.
var countLabels = []string{" views", " view", " points", " point", " upvotes"}

// parseCompactCount parses abbreviated engagement counters such as
// "1.2K", "3M", "1,234" or "12 views". Placeholders ("•", "-", empty)
// and anything non-numeric parse to 0.
func parseCompactCount(text string) int64 {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.ReplaceAll(t, ",", "")
	for _, label := range countLabels {
		t = strings.TrimSuffix(t, label)
	}
	t = strings.TrimSpace(t)

	switch t {
	case "", "-", "•":
		return 0
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(t, "k"):
		multiplier = 1_000
		t = strings.TrimSuffix(t, "k")
	case strings.HasSuffix(t, "m"):
		multiplier = 1_000_000
		t = strings.TrimSuffix(t, "m")
	case strings.HasSuffix(t, "b"):
		multiplier = 1_000_000_000
		t = strings.TrimSuffix(t, "b")
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
	if err != nil {
		return 0
	}
	return int64(f * float64(multiplier))
}

// firstInt extracts the first run of digits in text, e.g. the comment
// count from a "123 comments" link label. Returns 0 when absent.
func firstInt(text string) int64 {
	m := digitRun.FindString(text)
	if m == "" {
		return 0
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

package judge

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// FallbackScore is the neutral score used when a judge reply cannot be parsed.
const FallbackScore = 0.5

var scorePattern = regexp.MustCompile(`[0-1]\.\d+|1\.0`)

// Score is one judge rating and how it was obtained.
type Score struct {
	Value         float64
	ParseFallback bool
	Err           string
}

// Failed reports whether the judge call itself failed.
func (s Score) Failed() bool {
	return s.Err != ""
}

// Ask sends a rendered prompt and parses a 0-1 rating from the reply.
// A failed call yields FallbackScore with Err set.
func Ask(ctx context.Context, client Client, prompt string) Score {
	resp := client.Invoke(ctx, prompt)
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "judge call failed"
		}
		return Score{Value: FallbackScore, Err: msg}
	}

	value, fallback := ParseScore(resp.Result)
	return Score{Value: value, ParseFallback: fallback}
}

// ParseScore extracts a 0-1 rating from free text. The second return value is
// true when nothing score-like was found and FallbackScore was used.
func ParseScore(content string) (float64, bool) {
	content = stripMarkdownCodeBlock(content)

	if v, err := strconv.ParseFloat(content, 64); err == nil && v >= 0 && v <= 1 {
		return v, false
	}

	match := scorePattern.FindString(content)
	if match == "" {
		return FallbackScore, true
	}

	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return FallbackScore, true
	}
	return clamp(v), false
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// stripMarkdownCodeBlock removes markdown code block formatting if present
func stripMarkdownCodeBlock(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		firstNewline := strings.Index(content, "\n")
		if firstNewline == -1 {
			return content
		}

		closingBackticks := strings.LastIndex(content, "```")
		if closingBackticks == -1 || closingBackticks <= firstNewline {
			return content
		}

		content = strings.TrimSpace(content[firstNewline+1 : closingBackticks])
	}

	return content
}

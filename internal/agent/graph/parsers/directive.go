// Package parsers turns untrusted model output into a closed set of routing
// decisions and tool parameters. Parsing is deliberately permissive: the
// payload of a directive is free text emitted by a language model, so
// extraction defaults rather than rejects.
package parsers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/procode-bot/server/internal/agent/model"
	"github.com/procode-bot/server/internal/pricing"
)

// Directive markers embedded in otherwise free-form assistant text.
const (
	DirectiveLookup    = "[LOOKUP:"
	DirectiveCalculate = "[CALCULATE:"
	DirectiveFinalize  = "[GENERATE_PROPOSAL]"
)

// DefaultHours is used when a calculate payload carries no digits at all.
const DefaultHours = 50

// maxContentLen caps the text we are willing to scan, guarding against
// pathological model output.
const maxContentLen = 128 * 1024

var (
	digitRun     = regexp.MustCompile(`\d+`)
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+`)
)

// Classify maps raw assistant text to a routing token by literal substring
// match, in priority order lookup, calculate, finalize. It is a pure function
// of the text: identical input always yields the same token.
func Classify(content string) string {
	if len(content) > maxContentLen {
		content = content[:maxContentLen]
	}
	switch {
	case strings.Contains(content, DirectiveLookup):
		return model.RouteLookup
	case strings.Contains(content, DirectiveCalculate):
		return model.RoutePricing
	case strings.Contains(content, DirectiveFinalize):
		return model.RouteDraft
	default:
		return model.RouteWait
	}
}

// Payload extracts the trimmed text between a directive's opening marker and
// the next closing bracket.
func Payload(content, directive string) (string, error) {
	if len(content) > maxContentLen {
		content = content[:maxContentLen]
	}
	start := strings.Index(content, directive)
	if start < 0 {
		return "", fmt.Errorf("directive %q not found", directive)
	}
	rest := content[start+len(directive):]
	end := strings.Index(rest, "]")
	if end < 0 {
		return "", fmt.Errorf("directive %q not closed", directive)
	}
	return strings.TrimSpace(rest[:end]), nil
}

// Hours finds the first run of decimal digits in a calculate payload and
// parses it as the hour count, defaulting when no digits are present.
func Hours(payload string) int {
	m := digitRun.FindString(payload)
	if m == "" {
		return DefaultHours
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		// digit runs longer than an int only occur in garbage payloads
		return DefaultHours
	}
	return n
}

// Level scans a calculate payload case-insensitively for a seniority keyword,
// first match wins in the order expert, senior, junior; mid otherwise.
func Level(payload string) string {
	p := strings.ToLower(payload)
	switch {
	case strings.Contains(p, pricing.LevelExpert):
		return pricing.LevelExpert
	case strings.Contains(p, pricing.LevelSenior):
		return pricing.LevelSenior
	case strings.Contains(p, pricing.LevelJunior):
		return pricing.LevelJunior
	default:
		return pricing.LevelMid
	}
}

// Email extracts the first email-shaped token from text.
func Email(text string) (string, bool) {
	m := emailPattern.FindString(text)
	return m, m != ""
}

// StripHTMLFence removes a markdown code fence tagged as HTML around a model
// reply, returning the inner content. Text without such a fence passes
// through unchanged.
func StripHTMLFence(s string) string {
	const fence = "```html"
	start := strings.Index(s, fence)
	if start < 0 {
		return s
	}
	inner := s[start+len(fence):]
	if end := strings.Index(inner, "```"); end >= 0 {
		inner = inner[:end]
	}
	return strings.TrimSpace(inner)
}

package parsers

import (
	"strings"
	"testing"

	"github.com/procode-bot/server/internal/agent/model"
)

func TestClassifyPriority(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"lookup", "Let me check. [LOOKUP: ecommerce projects]", model.RouteLookup},
		{"calculate", "Here goes: [CALCULATE: 100, senior]", model.RoutePricing},
		{"finalize", "Great, sending it now. [GENERATE_PROPOSAL]", model.RouteDraft},
		{"plain reply", "Could you tell me more about the features you need?", model.RouteWait},
		{"lookup beats calculate", "[LOOKUP: rates] then [CALCULATE: 10, junior]", model.RouteLookup},
		{"calculate beats finalize", "[CALCULATE: 10] [GENERATE_PROPOSAL]", model.RoutePricing},
		{"empty", "", model.RouteWait},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Classify(c.content); got != c.want {
				t.Errorf("Classify(%q) = %q, want %q", c.content, got, c.want)
			}
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	content := "some text [CALCULATE: 100, senior] more text"
	first := Classify(content)
	for i := 0; i < 3; i++ {
		if got := Classify(content); got != first {
			t.Fatalf("Classify not deterministic: %q then %q", first, got)
		}
	}
}

func TestPayload(t *testing.T) {
	got, err := Payload("sure [LOOKUP:  past fintech work ] thanks", DirectiveLookup)
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if got != "past fintech work" {
		t.Errorf("Payload = %q, want %q", got, "past fintech work")
	}
}

func TestPayloadUnclosed(t *testing.T) {
	if _, err := Payload("[CALCULATE: 100, senior", DirectiveCalculate); err == nil {
		t.Error("expected error for unclosed directive")
	}
	if _, err := Payload("no directive here", DirectiveCalculate); err == nil {
		t.Error("expected error for missing directive")
	}
}

func TestHours(t *testing.T) {
	cases := []struct {
		payload string
		want    int
	}{
		{"100, senior", 100},
		{"about 250 hours, expert", 250},
		{"fifty hours, junior dev", DefaultHours},
		{"", DefaultHours},
		{"no numbers at all", DefaultHours},
	}
	for _, c := range cases {
		if got := Hours(c.payload); got != c.want {
			t.Errorf("Hours(%q) = %d, want %d", c.payload, got, c.want)
		}
	}
}

func TestLevel(t *testing.T) {
	cases := []struct {
		payload string
		want    string
	}{
		{"100, senior", "senior"},
		{"fifty hours, junior dev", "junior"},
		{"an EXPERT please", "expert"},
		{"expert or senior, whichever", "expert"},
		{"100 hours", "mid"},
		{"", "mid"},
	}
	for _, c := range cases {
		if got := Level(c.payload); got != c.want {
			t.Errorf("Level(%q) = %q, want %q", c.payload, got, c.want)
		}
	}
}

func TestEmail(t *testing.T) {
	got, ok := Email("sure, send it to jane.doe-42@example.co.in please")
	if !ok || got != "jane.doe-42@example.co.in" {
		t.Errorf("Email = %q, %v", got, ok)
	}
	if _, ok := Email("no address here"); ok {
		t.Error("expected no match")
	}
}

func TestStripHTMLFence(t *testing.T) {
	fenced := "```html\n<h1>Proposal</h1>\n```"
	if got := StripHTMLFence(fenced); got != "<h1>Proposal</h1>" {
		t.Errorf("StripHTMLFence = %q", got)
	}

	plain := "<h1>Proposal</h1>"
	if got := StripHTMLFence(plain); got != plain {
		t.Errorf("unfenced content modified: %q", got)
	}

	leading := "Here you go:\n```html\n<p>hi</p>\n```\nanything after"
	if got := StripHTMLFence(leading); got != "<p>hi</p>" {
		t.Errorf("StripHTMLFence with prose = %q", got)
	}
}

func TestClassifyHugeInput(t *testing.T) {
	// The directive sits past the scan cap; classification degrades to wait.
	content := strings.Repeat("x", maxContentLen) + "[GENERATE_PROPOSAL]"
	if got := Classify(content); got != model.RouteWait {
		t.Errorf("Classify(huge) = %q, want wait", got)
	}
}

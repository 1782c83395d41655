package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/procode-bot/server/internal/agent/model"
)

func TestSystemPreambleStable(t *testing.T) {
	p := SystemPreamble()
	if p == "" {
		t.Fatal("empty preamble")
	}
	if p != SystemPreamble() {
		t.Error("preamble not stable across calls")
	}
	for _, directive := range []string{"[LOOKUP:", "[CALCULATE:", "[GENERATE_PROPOSAL]"} {
		if !strings.Contains(p, directive) {
			t.Errorf("preamble missing %q", directive)
		}
	}
}

func TestRenderTurnInstructions(t *testing.T) {
	got, err := RenderTurnInstructions(context.Background())
	if err != nil {
		t.Fatalf("RenderTurnInstructions: %v", err)
	}
	for _, directive := range []string{"[LOOKUP:", "[CALCULATE:", "[GENERATE_PROPOSAL]"} {
		if !strings.Contains(got, directive) {
			t.Errorf("instructions missing %q", directive)
		}
	}
}

func TestRenderProposalPrompt(t *testing.T) {
	cfg := model.ProposalConfig{
		BrandName:      "ProCode Bot",
		CompanyName:    "ProCodeHub Pvt Ltd",
		CompanyAddress: "Shivamogga, Karnataka",
		CompanyContact: "+91 00000 00000",
	}
	got, err := RenderProposalPrompt(context.Background(), cfg, ProposalVars{
		Requirements: "A booking platform for 10k users",
		PriceLabel:   "₹60,000",
		Notes:        "Standard terms apply.",
	})
	if err != nil {
		t.Fatalf("RenderProposalPrompt: %v", err)
	}
	for _, want := range []string{"₹60,000", "A booking platform", "ProCode Bot", "ProCodeHub Pvt Ltd", "price-box"} {
		if !strings.Contains(got, want) {
			t.Errorf("proposal prompt missing %q", want)
		}
	}
	if strings.Contains(got, "<img") {
		t.Error("logo block rendered without a logo URL")
	}
}

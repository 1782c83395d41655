package nodes

import (
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/procode-bot/server/internal/agent/model"
)

const (
	testBrand    = "ProCode Bot"
	testFallback = "sanjuhoskal@gmail.com"
)

func TestResolveRecipientFromUser(t *testing.T) {
	msgs := []*schema.Message{
		schema.UserMessage("I need a web app"),
		schema.AssistantMessage("Sure, what is your budget?", nil),
		schema.UserMessage("Send the proposal to jane.doe@acme.io please"),
	}
	if got := resolveRecipient(msgs, testBrand, testFallback); got != "jane.doe@acme.io" {
		t.Fatalf("recipient = %q", got)
	}
}

func TestResolveRecipientSkipsAgentSelfMention(t *testing.T) {
	// The agent mentioning an address on behalf of ProCode Bot must not
	// hijack delivery.
	msgs := []*schema.Message{
		schema.UserMessage("client@corp.com is my address"),
		schema.AssistantMessage("ProCode Bot will reach you at support@procode.example.", nil),
	}
	if got := resolveRecipient(msgs, testBrand, testFallback); got != "client@corp.com" {
		t.Fatalf("recipient = %q", got)
	}
}

func TestResolveRecipientFallback(t *testing.T) {
	msgs := []*schema.Message{
		schema.UserMessage("I need a chatbot, 100 hours of senior work"),
		schema.AssistantMessage("Understood.", nil),
	}
	if got := resolveRecipient(msgs, testBrand, testFallback); got != testFallback {
		t.Fatalf("recipient = %q", got)
	}
}

func TestResolveRecipientFirstCandidateOnly(t *testing.T) {
	// Once a candidate message is found, an unusable "@" in it does not
	// send the scan further back in history.
	msgs := []*schema.Message{
		schema.UserMessage("old@addr.com"),
		schema.UserMessage("meet me @ the office"),
	}
	if got := resolveRecipient(msgs, testBrand, testFallback); got != testFallback {
		t.Fatalf("recipient = %q", got)
	}
}

func TestRequirementsSummary(t *testing.T) {
	msgs := []*schema.Message{
		schema.SystemMessage("preamble"),
		schema.UserMessage("Build me an inventory tracker"),
		schema.AssistantMessage("[GENERATE_PROPOSAL]", nil),
	}
	if got := requirementsSummary(msgs); got != "Build me an inventory tracker" {
		t.Fatalf("requirements = %q", got)
	}
	if got := requirementsSummary(msgs[:1]); got != "Client project" {
		t.Fatalf("short transcript fallback = %q", got)
	}
}

func TestPriceLabel(t *testing.T) {
	st := model.NewConversationState("t1")
	if got := priceLabel(st); got != pendingPriceLabel {
		t.Fatalf("unset price label = %q", got)
	}
	st.ProjectPrice = 60000
	st.PriceSet = true
	if got := priceLabel(st); got != "₹60,000" {
		t.Fatalf("price label = %q", got)
	}
}

func TestSummariseDrafting(t *testing.T) {
	base := draftingOutcome{PriceLabel: "₹60,000", Recipient: "jane@acme.io"}

	renderFail := base
	if s := summariseDrafting(renderFail); !strings.Contains(s, "trouble generating") {
		t.Fatalf("render failure summary = %q", s)
	}

	sendFail := base
	sendFail.RenderOK = true
	sendFail.PDFPath = "generated_proposals/proposal_ab12cd34.pdf"
	sendFail.Delivery = model.DeliveryStatus{Success: false, Detail: "smtp dial: timeout"}
	s := summariseDrafting(sendFail)
	if !strings.Contains(s, "failed") || !strings.Contains(s, "jane@acme.io") {
		t.Fatalf("send failure summary = %q", s)
	}
	if strings.Contains(s, "sent to jane@acme.io!") {
		t.Fatalf("send failure must not read as success: %q", s)
	}

	ok := sendFail
	ok.Delivery = model.DeliveryStatus{Success: true, Detail: "delivered to jane@acme.io"}
	s = summariseDrafting(ok)
	if !strings.Contains(s, "sent to jane@acme.io") || !strings.Contains(s, "₹60,000") {
		t.Fatalf("success summary = %q", s)
	}
}

package nodes

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/procode-bot/server/internal/agent/model"
	"github.com/procode-bot/server/internal/pricing"
)

type fakeRetriever struct {
	result string
	err    error
	query  string
}

func (f *fakeRetriever) RetrieveSimilarProjects(_ context.Context, query string) (string, error) {
	f.query = query
	return f.result, f.err
}

func newToolDeps(r model.KnowledgeRetriever) *Collaborators {
	return &Collaborators{
		Retriever: r,
		Pricer:    pricing.NewTable(),
	}
}

func TestExecuteDirectiveLookupStoresContext(t *testing.T) {
	retr := &fakeRetriever{result: "--- Snippet from faq.md ---\nWe build chatbots."}
	deps := newToolDeps(retr)
	st := model.NewConversationState("t1")

	msg := executeDirective(context.Background(), deps, st,
		"Let me check. [LOOKUP: chatbot projects]", model.RouteLookup)

	if msg == nil {
		t.Fatal("expected a tool result message")
	}
	if retr.query != "chatbot projects" {
		t.Fatalf("retriever query = %q", retr.query)
	}
	if !strings.HasPrefix(msg.Content, "RAG RESULT:") {
		t.Fatalf("unexpected result message: %q", msg.Content)
	}
	if st.RagContext != retr.result {
		t.Fatalf("RagContext = %q", st.RagContext)
	}
}

func TestExecuteDirectiveLookupFailureKeepsContext(t *testing.T) {
	deps := newToolDeps(&fakeRetriever{err: errors.New("connection refused")})
	st := model.NewConversationState("t1")
	st.RagContext = "earlier context"

	msg := executeDirective(context.Background(), deps, st,
		"[LOOKUP: anything]", model.RouteLookup)

	if msg == nil || !strings.Contains(msg.Content, "LOOKUP ERROR") {
		t.Fatalf("expected lookup error message, got %v", msg)
	}
	if st.RagContext != "earlier context" {
		t.Fatalf("RagContext overwritten on failure: %q", st.RagContext)
	}
}

func TestExecuteDirectivePricingSeniorHundredHours(t *testing.T) {
	deps := newToolDeps(&fakeRetriever{})
	st := model.NewConversationState("t1")

	msg := executeDirective(context.Background(), deps, st,
		"[CALCULATE: 100 hours, senior level]", model.RoutePricing)

	if msg == nil {
		t.Fatal("expected a tool result message")
	}
	if !strings.Contains(msg.Content, "60000") {
		t.Fatalf("expected raw price in result, got %q", msg.Content)
	}
	if st.ProjectPrice != 60000 || !st.PriceSet {
		t.Fatalf("state price = %d (set=%v)", st.ProjectPrice, st.PriceSet)
	}
}

func TestExecuteDirectivePricingDefaults(t *testing.T) {
	deps := newToolDeps(&fakeRetriever{})
	st := model.NewConversationState("t1")

	// No digits and no known level: falls back to 50 hours at mid rate.
	msg := executeDirective(context.Background(), deps, st,
		"[CALCULATE: a quick one]", model.RoutePricing)

	if msg == nil {
		t.Fatal("expected a tool result message")
	}
	if st.ProjectPrice != 50*400 {
		t.Fatalf("default price = %d", st.ProjectPrice)
	}

	// Spelled-out hours with a junior keyword: default hours, junior rate.
	executeDirective(context.Background(), deps, st,
		"[CALCULATE: fifty hours, junior dev]", model.RoutePricing)
	if st.ProjectPrice != 5000 {
		t.Fatalf("junior default-hours price = %d", st.ProjectPrice)
	}
}

func TestExecuteDirectivePricingMalformedPayload(t *testing.T) {
	deps := newToolDeps(&fakeRetriever{})
	st := model.NewConversationState("t1")

	msg := executeDirective(context.Background(), deps, st,
		"[CALCULATE: 100 hours, senior", model.RoutePricing)

	if msg == nil || !strings.Contains(msg.Content, "PRICING ERROR") {
		t.Fatalf("expected pricing error message, got %v", msg)
	}
	if st.PriceSet {
		t.Fatal("price should not be set on a malformed payload")
	}
}

func TestExecuteDirectiveUnknownRouteIsNoOp(t *testing.T) {
	deps := newToolDeps(&fakeRetriever{})
	st := model.NewConversationState("t1")

	if msg := executeDirective(context.Background(), deps, st, "hello", model.RouteWait); msg != nil {
		t.Fatalf("expected nil for %q, got %q", model.RouteWait, msg.Content)
	}
}

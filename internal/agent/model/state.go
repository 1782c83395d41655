package model

import (
	"github.com/cloudwego/eino/schema"
)

// Routing tokens produced by the reasoning step. The set is closed: anything
// the classifier cannot recognise resolves to RouteWait.
const (
	RouteLookup  = "run_lookup"
	RoutePricing = "run_pricing"
	RouteDraft   = "draft_proposal"
	RouteWait    = "wait_for_user"
	RouteEnd     = "end"
)

// ConversationState is the per-thread checkpoint persisted between turns.
// Messages is append-only: steps may add entries but never remove or mutate
// prior ones, and its order doubles as the model's prompt context.
type ConversationState struct {
	ThreadID string `json:"thread_id"`

	Messages []*schema.Message `json:"messages"`

	// RagContext holds the last knowledge-lookup result, overwritten per lookup.
	RagContext string `json:"rag_context,omitempty"`

	// ProjectPrice is the last computed price; PriceSet distinguishes a real
	// zero from "never computed".
	ProjectPrice int  `json:"project_price,omitempty"`
	PriceSet     bool `json:"price_set,omitempty"`

	// PDFPath is set only after a successful render.
	PDFPath string `json:"pdf_path,omitempty"`
}

// NewConversationState returns an empty checkpoint for a thread.
func NewConversationState(threadID string) *ConversationState {
	return &ConversationState{
		ThreadID: threadID,
		Messages: []*schema.Message{},
	}
}

// AppState stores per-invocation state for the Eino graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
//   - State is not persisted here; the checkpoint lives behind CheckpointStore.
type AppState struct {
	ThreadID string
	State    *ConversationState // loaded checkpoint, mutated only inside handlers

	// NextStep is the routing token from the most recent reasoning step.
	// Transient: recomputed on every reasoning pass.
	NextStep string

	// Accumulated total LLM cost (USD) across model invocations for this turn.
	TotalCostUSD float64
}

// TurnInput represents one submitted user turn.
type TurnInput struct {
	ThreadID string `json:"thread_id"`
	Query    string `json:"query"`

	// AttachmentText is pre-extracted text of an attached document, if any.
	AttachmentText string `json:"attachment_text,omitempty"`
}

// TurnResult is what a completed turn hands back to the serving layer.
type TurnResult struct {
	Reply   string `json:"reply"`
	PDFPath string `json:"pdf_path,omitempty"`
}

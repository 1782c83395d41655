package conversations

import (
	"context"
	"strings"

	"github.com/procode-bot/server/internal/agent/graph/prompts"
	"github.com/procode-bot/server/internal/agent/model"

	"github.com/cloudwego/eino/schema"
)

// StateManager owns the per-thread conversation checkpoint: it loads it at
// the start of a turn, guards the append-only message log, and writes it
// back after every mutation. Graph nodes never touch the store directly.
type StateManager struct {
	store model.CheckpointStore
}

func NewStateManager(store model.CheckpointStore) *StateManager {
	return &StateManager{store: store}
}

// BeginTurn loads the checkpoint for a thread, inserts the system preamble if
// it is not there yet, appends the user's message, and checkpoints the result.
func (m *StateManager) BeginTurn(ctx context.Context, threadID, userText string) (*model.ConversationState, error) {
	st, err := m.store.Load(ctx, threadID)
	if err != nil {
		return nil, err
	}

	ensurePreamble(st)
	st.Messages = append(st.Messages, schema.UserMessage(userText))

	if err := m.store.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Append adds one message to the log and checkpoints the whole state,
// including any tool fields mutated since the last save.
func (m *StateManager) Append(ctx context.Context, st *model.ConversationState, msg *schema.Message) error {
	st.Messages = append(st.Messages, msg)
	return m.store.Save(ctx, st)
}

// Checkpoint persists the state without appending anything.
func (m *StateManager) Checkpoint(ctx context.Context, st *model.ConversationState) error {
	return m.store.Save(ctx, st)
}

// ReasoningContext builds the model context for a reasoning call: the full
// persisted history plus a trailing per-turn instruction block. The block is
// used for this one call only and never enters the checkpoint.
func (m *StateManager) ReasoningContext(st *model.ConversationState, instructions string) []*schema.Message {
	messages := make([]*schema.Message, 0, len(st.Messages)+1)
	messages = append(messages, st.Messages...)
	messages = append(messages, schema.SystemMessage(instructions))
	return messages
}

// ensurePreamble inserts the fixed system preamble as the first message.
// Every turn re-checks, but the preamble is inserted at most once: once
// Messages[0] carries role system it is never touched again.
func ensurePreamble(st *model.ConversationState) {
	if len(st.Messages) > 0 && st.Messages[0].Role == schema.System {
		return
	}
	preamble := schema.SystemMessage(prompts.SystemPreamble())
	st.Messages = append([]*schema.Message{preamble}, st.Messages...)
}

// ComposeUserText merges the user's free text with optional pre-extracted
// attachment text, wrapped so the model treats it as project requirements.
func ComposeUserText(query, attachment string) string {
	attachment = strings.TrimSpace(attachment)
	if attachment == "" {
		return query
	}

	var b strings.Builder
	b.WriteString(query)
	b.WriteString("\n<ATTACHED_PROJECT_DOCUMENT>\n")
	b.WriteString(attachment)
	b.WriteString("\n</ATTACHED_PROJECT_DOCUMENT>\n")
	b.WriteString("[SYSTEM NOTE: The text above is the content of the document uploaded by the user. Use it as the primary source for requirements.]")
	return b.String()
}

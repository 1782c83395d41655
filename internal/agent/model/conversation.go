package model

import (
	"context"
)

// CheckpointStore persists whole conversation checkpoints keyed by thread id.
// Semantics are whole-object read/write: Save after step N followed by Load
// before step N+1 must round-trip the same content. Distinct thread ids must
// never observe each other's state.
type CheckpointStore interface {
	// Load returns the checkpoint for a thread, or a fresh empty state when
	// none exists yet. It never returns nil with a nil error.
	Load(ctx context.Context, threadID string) (*ConversationState, error)

	// Save overwrites the checkpoint for a thread.
	Save(ctx context.Context, state *ConversationState) error

	// Delete removes the checkpoint for a thread.
	Delete(ctx context.Context, threadID string) error
}

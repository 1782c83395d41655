package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/procode-bot/server/internal/agent/model"
)

// MemoryCheckpointStore is an in-process store for tests and local runs.
// It serialises checkpoints through JSON so that stored state is a true
// snapshot, not a shared pointer into a live conversation.
type MemoryCheckpointStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryCheckpointStore() *MemoryCheckpointStore {
	return &MemoryCheckpointStore{blobs: make(map[string][]byte)}
}

func (m *MemoryCheckpointStore) Load(ctx context.Context, threadID string) (*model.ConversationState, error) {
	m.mu.RLock()
	raw, ok := m.blobs[threadID]
	m.mu.RUnlock()

	if !ok {
		return model.NewConversationState(threadID), nil
	}

	var st model.ConversationState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	return &st, nil
}

func (m *MemoryCheckpointStore) Save(ctx context.Context, state *model.ConversationState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	m.mu.Lock()
	m.blobs[state.ThreadID] = b
	m.mu.Unlock()
	return nil
}

func (m *MemoryCheckpointStore) Delete(ctx context.Context, threadID string) error {
	m.mu.Lock()
	delete(m.blobs, threadID)
	m.mu.Unlock()
	return nil
}

var _ model.CheckpointStore = (*MemoryCheckpointStore)(nil)

package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/procode-bot/server/internal/agent/model"
	errx "github.com/procode-bot/server/internal/core/error"
	logx "github.com/procode-bot/server/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisCheckpointStore persists each conversation as a single JSON blob under
// a per-thread key. Whole-object writes keep checkpoint semantics simple and
// make cross-thread isolation a property of the key space.
type RedisCheckpointStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisCheckpointStore(rdb redis.Cmdable, ttl time.Duration) *RedisCheckpointStore {
	return &RedisCheckpointStore{rdb: rdb, ttl: ttl}
}

func (r *RedisCheckpointStore) checkpointKey(threadID string) string {
	return fmt.Sprintf("conversation:%s:state", threadID)
}

func (r *RedisCheckpointStore) Load(ctx context.Context, threadID string) (*model.ConversationState, error) {
	key := r.checkpointKey(threadID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return model.NewConversationState(threadID), nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load checkpoint from redis")
		return nil, errx.WrapRedis(err)
	}

	var st model.ConversationState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		logx.Error().Err(err).Str("thread_id", threadID).Msg("failed to unmarshal checkpoint")
		return nil, fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	if st.ThreadID == "" {
		st.ThreadID = threadID
	}
	return &st, nil
}

func (r *RedisCheckpointStore) Save(ctx context.Context, state *model.ConversationState) error {
	b, err := json.Marshal(state)
	if err != nil {
		logx.Error().Err(err).Str("thread_id", state.ThreadID).Msg("failed to marshal checkpoint")
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	key := r.checkpointKey(state.ThreadID)

	// TTL is refreshed on every save; zero means the key never expires.
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write checkpoint to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisCheckpointStore) Delete(ctx context.Context, threadID string) error {
	key := r.checkpointKey(threadID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete checkpoint from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.CheckpointStore = (*RedisCheckpointStore)(nil)

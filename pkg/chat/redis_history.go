package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

// RedisStore keeps rolling history in a Redis list per user, trimmed to
// capacity on every append. Survives process restarts and is shared
// across replicas.
type RedisStore struct {
	client   *redis.Client
	capacity int
}

// NewRedisStore creates a Redis-backed history store.
func NewRedisStore(client *redis.Client, capacity int) *RedisStore {
	if capacity <= 0 {
		capacity = MaxTurns
	}
	return &RedisStore{client: client, capacity: capacity}
}

var _ HistoryStore = (*RedisStore)(nil)

func historyKey(userID uuid.UUID) string {
	return "chat:history:" + userID.String()
}

func (s *RedisStore) Append(ctx context.Context, userID uuid.UUID, turn models.ChatTurn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to marshal chat turn: %w", err)
	}

	key := historyKey(userID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.capacity-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append chat turn: %w", err)
	}
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, userID uuid.UUID, n int) ([]models.ChatTurn, error) {
	if n <= 0 || n > s.capacity {
		n = s.capacity
	}

	// List is newest-first; fetch then reverse to oldest-first.
	raw, err := s.client.LRange(ctx, historyKey(userID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}

	turns := make([]models.ChatTurn, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var turn models.ChatTurn
		if err := json.Unmarshal([]byte(raw[i]), &turn); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

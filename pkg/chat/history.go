package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

// HistoryStore keeps each user's rolling conversation history. Keying by
// user prevents turns from one conversation leaking into another's prompt.
type HistoryStore interface {
	// Append adds a turn, evicting the oldest once the capacity is exceeded.
	Append(ctx context.Context, userID uuid.UUID, turn models.ChatTurn) error
	// Recent returns up to n most-recent turns, oldest first.
	Recent(ctx context.Context, userID uuid.UUID, n int) ([]models.ChatTurn, error)
}

// MemoryStore is the in-process HistoryStore used when Redis is not
// configured. History does not survive restarts, matching the original
// deployment's behavior.
type MemoryStore struct {
	capacity int

	mu    sync.Mutex
	turns map[uuid.UUID][]models.ChatTurn
}

// NewMemoryStore creates an in-memory history store with the given
// per-user capacity.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = MaxTurns
	}
	return &MemoryStore{
		capacity: capacity,
		turns:    make(map[uuid.UUID][]models.ChatTurn),
	}
}

var _ HistoryStore = (*MemoryStore)(nil)

func (s *MemoryStore) Append(ctx context.Context, userID uuid.UUID, turn models.ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.turns[userID], turn)
	if len(history) > s.capacity {
		history = history[len(history)-s.capacity:]
	}
	s.turns[userID] = history
	return nil
}

func (s *MemoryStore) Recent(ctx context.Context, userID uuid.UUID, n int) ([]models.ChatTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.turns[userID]
	if n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}

	out := make([]models.ChatTurn, len(history))
	copy(out, history)
	return out, nil
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agrisense-io/agrisense-engine/pkg/database"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

// ChatRepository provides data access for chat log records. Append-only.
type ChatRepository interface {
	Save(ctx context.Context, log *models.ChatLog) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.ChatLog, error)
	GetLatest(ctx context.Context, limit int) ([]*models.ChatLog, error)
}

type chatRepository struct {
	db *database.DB
}

// NewChatRepository creates a new chat log repository.
func NewChatRepository(db *database.DB) ChatRepository {
	return &chatRepository{db: db}
}

var _ ChatRepository = (*chatRepository)(nil)

func (r *chatRepository) Save(ctx context.Context, log *models.ChatLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = time.Now()

	query := `
		INSERT INTO chat_logs (id, user_id, question, answer, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query, log.ID, log.UserID, log.Question, log.Answer, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save chat log: %w", err)
	}

	return nil
}

// GetByUser returns a user's chat logs, newest first.
func (r *chatRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.ChatLog, error) {
	query := `
		SELECT c.id, c.user_id, '', c.question, c.answer, c.created_at
		FROM chat_logs c
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC`

	return r.query(ctx, query, userID)
}

// GetLatest returns the most recent chat logs across all users with the
// owning user's name joined in. Admin-only surface.
func (r *chatRepository) GetLatest(ctx context.Context, limit int) ([]*models.ChatLog, error) {
	query := `
		SELECT c.id, c.user_id, u.name, c.question, c.answer, c.created_at
		FROM chat_logs c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at DESC
		LIMIT $1`

	return r.query(ctx, query, limit)
}

func (r *chatRepository) query(ctx context.Context, query string, args ...any) ([]*models.ChatLog, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.ChatLog
	for rows.Next() {
		var log models.ChatLog
		if err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.UserName,
			&log.Question,
			&log.Answer,
			&log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat log: %w", err)
		}
		logs = append(logs, &log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat logs: %w", err)
	}

	return logs, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/apperrors"
	"github.com/agrisense-io/agrisense-engine/pkg/chat"
	"github.com/agrisense-io/agrisense-engine/pkg/llm"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
	"github.com/agrisense-io/agrisense-engine/pkg/repositories"
	"github.com/agrisense-io/agrisense-engine/pkg/translate"
)

// ChatService answers farmer questions in their chosen language,
// keeping a rolling per-user history for conversational context.
type ChatService interface {
	Ask(ctx context.Context, userID uuid.UUID, text, language string) (string, error)
}

// chatService implements ChatService.
type chatService struct {
	generator  llm.TextGenerator
	translator translate.Translator
	history    chat.HistoryStore
	chatRepo   repositories.ChatRepository
	logger     *zap.Logger
}

// NewChatService creates a new chat service with dependencies.
func NewChatService(
	generator llm.TextGenerator,
	translator translate.Translator,
	history chat.HistoryStore,
	chatRepo repositories.ChatRepository,
	logger *zap.Logger,
) ChatService {
	return &chatService{
		generator:  generator,
		translator: translator,
		history:    history,
		chatRepo:   chatRepo,
		logger:     logger,
	}
}

// Ask translates the question to English, prompts the model with the
// user's recent history, translates the answer back and records the
// exchange. The history holds the English form of both sides so the
// model sees one language regardless of what the farmer typed.
func (s *chatService) Ask(ctx context.Context, userID uuid.UUID, text, language string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("%w: message is required", apperrors.ErrValidation)
	}

	langCode, ok := models.LanguageCodes[language]
	if !ok {
		return "", fmt.Errorf("%w: unsupported language %q", apperrors.ErrValidation, language)
	}

	english, err := translate.ToEnglish(ctx, s.translator, text, langCode)
	if err != nil {
		return "", fmt.Errorf("%w: question translation: %v", apperrors.ErrUpstreamDegraded, err)
	}

	recent, err := s.history.Recent(ctx, userID, chat.MaxTurns)
	if err != nil {
		s.logger.Warn("Chat history unavailable", zap.Error(err))
		recent = nil
	}

	answer, err := s.generator.GenerateResponse(ctx, chat.BuildPrompt(recent, english))
	if err != nil {
		return "", fmt.Errorf("%w: text generation: %v", apperrors.ErrUpstreamDegraded, err)
	}

	translated, err := translate.FromEnglish(ctx, s.translator, answer, langCode)
	if err != nil {
		return "", fmt.Errorf("%w: answer translation: %v", apperrors.ErrUpstreamDegraded, err)
	}

	if err := s.history.Append(ctx, userID, models.ChatTurn{UserText: english, BotText: answer}); err != nil {
		s.logger.Warn("Failed to append chat history", zap.Error(err))
	}

	log := &models.ChatLog{
		UserID:   userID,
		Question: text,
		Answer:   translated,
	}
	if err := s.chatRepo.Save(ctx, log); err != nil {
		s.logger.Warn("Failed to persist chat log", zap.Error(err))
	}

	s.logger.Info("Chat answered",
		zap.String("user_id", userID.String()),
		zap.String("language", language))

	return translated, nil
}

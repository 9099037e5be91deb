package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/auth"
	"github.com/agrisense-io/agrisense-engine/pkg/services"
)

// ChatHandler handles the chatbot endpoint.
type ChatHandler struct {
	chats  services.ChatService
	logger *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chats services.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chats: chats, logger: logger.Named("chat")}
}

// RegisterRoutes registers the chat handler's routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/chat", authMiddleware.RequireToken(h.Ask))
}

type chatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// Ask handles POST /api/chat. Language defaults to english.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Language == "" {
		req.Language = "english"
	}

	answer, err := h.chats.Ask(r.Context(), userID, req.Message, req.Language)
	if err != nil {
		h.logger.Warn("Chat request failed", zap.Error(err))
		ServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, chatResponse{Answer: answer})
}

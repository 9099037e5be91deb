package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatTurn is one user/bot exchange held in the rolling history.
type ChatTurn struct {
	UserText string `json:"user"`
	BotText  string `json:"bot"`
}

// ChatLog is one persisted chat exchange. Append-only.
type ChatLog struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// Supported chat languages mapped to translation codes.
var LanguageCodes = map[string]string{
	"english": "en",
	"urdu":    "ur",
	"sindhi":  "sd",
}

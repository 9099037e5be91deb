// Package chat holds the chatbot's rolling history stores and prompt
// construction.
package chat

import (
	"strings"

	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

// MaxTurns is the rolling history capacity per user.
const MaxTurns = 6

const systemInstruction = "You are AgriBot, an AI agriculture assistant. " +
	"Give practical, actionable advice for crops, fertilizers, pest control, " +
	"and irrigation. Provide approximate ranges and step-by-step instructions, " +
	"do NOT just say 'consult an expert'.\n\n"

// BuildPrompt renders the grounded prompt: persona instruction, up to
// MaxTurns most-recent turns as alternating User/Bot lines, the new user
// line, and an open Bot cue.
func BuildPrompt(history []models.ChatTurn, userText string) string {
	var b strings.Builder
	b.WriteString(systemInstruction)

	start := 0
	if len(history) > MaxTurns {
		start = len(history) - MaxTurns
	}
	for _, turn := range history[start:] {
		b.WriteString("User: ")
		b.WriteString(turn.UserText)
		b.WriteString("\nBot: ")
		b.WriteString(turn.BotText)
		b.WriteString("\n")
	}

	b.WriteString("User: ")
	b.WriteString(userText)
	b.WriteString("\nBot:")
	return b.String()
}

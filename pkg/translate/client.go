// Package translate is the client for the translation collaborator used
// by the chatbot for Urdu and Sindhi conversations.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MaxChunkLen is the provider's per-request text limit. Longer texts are
// split on byte boundaries; chunk edges may fall mid-sentence, which is an
// accepted approximation.
const MaxChunkLen = 4000

// English is the pivot language for the chatbot.
const English = "en"

// Translator converts text between languages.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Client talks to the translation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a translation client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("translate"),
	}
}

var _ Translator = (*Client)(nil)

type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	Text string `json:"text"`
}

// Translate converts text from source to target language.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	body, err := json.Marshal(translateRequest{Text: text, Source: source, Target: target})
	if err != nil {
		return "", fmt.Errorf("failed to marshal translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translator returned status %d", resp.StatusCode)
	}

	var decoded translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode translate response: %w", err)
	}

	return decoded.Text, nil
}

// Chunks splits text into pieces of at most MaxChunkLen bytes, in order.
func Chunks(text string) []string {
	if text == "" {
		return nil
	}
	var chunks []string
	for len(text) > MaxChunkLen {
		chunks = append(chunks, text[:MaxChunkLen])
		text = text[MaxChunkLen:]
	}
	return append(chunks, text)
}

// ToEnglish translates user text into English. English input passes
// through unchanged.
func ToEnglish(ctx context.Context, t Translator, text, langCode string) (string, error) {
	if langCode == English {
		return text, nil
	}
	return t.Translate(ctx, text, langCode, English)
}

// FromEnglish translates generated text back to the user's language,
// chunk by chunk, joining results with a single space. English output
// passes through unchanged.
func FromEnglish(ctx context.Context, t Translator, text, langCode string) (string, error) {
	if langCode == English {
		return text, nil
	}

	var translated []string
	for _, chunk := range Chunks(text) {
		out, err := t.Translate(ctx, chunk, English, langCode)
		if err != nil {
			return "", err
		}
		translated = append(translated, out)
	}
	return strings.Join(translated, " "), nil
}

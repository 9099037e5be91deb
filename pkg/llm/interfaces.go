package llm

import "context"

// TextGenerator defines the interface for generative text operations.
// Use this interface for dependency injection to enable mocking in tests.
type TextGenerator interface {
	// GenerateResponse sends a single prompt and returns trimmed text output.
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}

// Ensure Client implements TextGenerator at compile time.
var _ TextGenerator = (*Client)(nil)

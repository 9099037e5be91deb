package llm

import "context"

// MockClient is a configurable TextGenerator for tests.
type MockClient struct {
	Response string
	Err      error

	// Prompts captures every prompt passed to GenerateResponse.
	Prompts []string
}

var _ TextGenerator = (*MockClient)(nil)

func (m *MockClient) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

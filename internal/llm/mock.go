package llm

import (
	"context"
	"strings"
	"sync"
)

// MockGenerator is a scripted Generator for tests.
// Responses are consumed in order; the last one repeats.
type MockGenerator struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	// ErrFor fails only prompts whose User text contains the key
	ErrFor  map[string]error
	Prompts []Prompt
}

// NewMockGenerator creates a MockGenerator returning responses in order
func NewMockGenerator(responses ...string) *MockGenerator {
	return &MockGenerator{Responses: responses}
}

func (m *MockGenerator) Generate(ctx context.Context, prompt Prompt) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	for key, err := range m.ErrFor {
		if strings.Contains(strings.ToLower(prompt.User), strings.ToLower(key)) {
			return "", err
		}
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	idx := len(m.Prompts) - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

// Calls returns the number of Generate calls
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

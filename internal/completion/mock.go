package completion

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockClient is a scripted Client for tests and offline runs. Rules
// match on substrings of the combined prompt; the first match wins.
// Every call is recorded so tests can assert call counts after a stop
// signal.
type MockClient struct {
	mu    sync.Mutex
	rules []mockRule
	calls []MockCall

	// Fallback is returned when no rule matches. Empty Fallback with
	// no matching rule returns an error.
	Fallback string

	// FailWith, when set, makes every call fail with this error.
	FailWith error

	// Delay, when set via BlockUntil, gates responses on a channel.
	blockCh chan struct{}
}

type mockRule struct {
	substr   string
	response string
	err      error
}

// MockCall records one completion invocation.
type MockCall struct {
	System string
	User   string
}

// NewMockClient returns an empty mock; add behavior with Respond.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Respond registers a canned response for prompts containing substr.
func (m *MockClient) Respond(substr, response string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{substr: substr, response: response})
	return m
}

// FailOn registers an error for prompts containing substr.
func (m *MockClient) FailOn(substr string, err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{substr: substr, err: err})
	return m
}

// BlockUntil makes calls wait on ch (or ctx) before responding, for
// tests that need in-flight calls.
func (m *MockClient) BlockUntil(ch chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blockCh = ch
}

// Calls returns a copy of all recorded calls.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many completions were requested.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	return m.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem implements Client.
func (m *MockClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{System: systemPrompt, User: userPrompt})
	rules := m.rules
	fallback := m.Fallback
	failWith := m.FailWith
	blockCh := m.blockCh
	m.mu.Unlock()

	if blockCh != nil {
		select {
		case <-blockCh:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if failWith != nil {
		return "", failWith
	}

	combined := systemPrompt + "\n" + userPrompt
	for _, r := range rules {
		if strings.Contains(combined, r.substr) {
			if r.err != nil {
				return "", r.err
			}
			return r.response, nil
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", fmt.Errorf("mock completion: no rule matches prompt %q", truncate(combined, 80))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

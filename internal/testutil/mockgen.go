// Package testutil provides test doubles shared across packages.
package testutil

import (
	"context"
	"strings"
	"sync"
)

// MockGenerator provides deterministic generation results for testing.
// It matches the prompt against registered patterns and returns the
// corresponding response; queued errors are consumed first, one per call.
//
// Thread-safe for concurrent use.
type MockGenerator struct {
	mu       sync.Mutex
	rules    []mockRule
	errs     []error
	fallback string
	calls    []string
}

type mockRule struct {
	pattern  string // substring match in the prompt, lowercased
	response string
}

// NewMockGenerator creates a mock generator with the given fallback
// response, returned when no pattern matches.
func NewMockGenerator(fallback string) *MockGenerator {
	return &MockGenerator{fallback: fallback}
}

// AddResponse registers a pattern-response pair. When a prompt contains the
// pattern (case-insensitive), the response is returned. Patterns are
// checked in registration order; first match wins.
func (m *MockGenerator) AddResponse(pattern, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{pattern: strings.ToLower(pattern), response: response})
}

// FailWith queues errors to be returned by upcoming calls, in order,
// before any pattern matching happens.
func (m *MockGenerator) FailWith(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, errs...)
}

// Calls returns a copy of all prompts seen so far.
func (m *MockGenerator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]string, len(m.calls))
	copy(cp, m.calls)
	return cp
}

// Generate implements llm.Generator.
func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, prompt)

	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return "", err
	}

	lower := strings.ToLower(prompt)
	for _, rule := range m.rules {
		if strings.Contains(lower, rule.pattern) {
			return rule.response, nil
		}
	}
	return m.fallback, nil
}

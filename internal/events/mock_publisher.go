package events

import (
	"context"
	"errors"
	"sync"
)

// MockPublisher records published events in memory for testing
type MockPublisher struct {
	mu           sync.Mutex
	events       []Event
	forceError   bool
	errorMessage string
	closed       bool
}

// NewMockPublisher creates a new mock publisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the event, or fails when an error is forced
func (m *MockPublisher) Publish(ctx context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.forceError {
		return errors.New(m.errorMessage)
	}
	m.events = append(m.events, event)
	return nil
}

// Close marks the publisher as closed
func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Events returns a copy of every recorded event (helper for tests)
func (m *MockPublisher) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Event(nil), m.events...)
}

// Types returns the recorded event types in order (helper for tests)
func (m *MockPublisher) Types() []EventType {
	m.mu.Lock()
	defer m.mu.Unlock()

	types := make([]EventType, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.Type)
	}
	return types
}

// Closed reports whether Close was called (helper for tests)
func (m *MockPublisher) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}

// SetError configures the mock to fail on Publish
func (m *MockPublisher) SetError(enable bool, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forceError = enable
	m.errorMessage = message
}

// Reset drops recorded events and clears the forced error
func (m *MockPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = nil
	m.forceError = false
	m.errorMessage = ""
	m.closed = false
}

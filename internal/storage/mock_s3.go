package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// MockS3Client implements S3Interface in memory for testing
type MockS3Client struct {
	mu           sync.RWMutex
	objects      map[string][]byte
	contentTypes map[string]string
	baseURL      string
	putCalls     int
	deleteCalls  int
	forceError   bool
	errorMessage string
}

// NewMockS3Client creates a new mock S3 client for testing
func NewMockS3Client(baseURL string) *MockS3Client {
	if baseURL == "" {
		baseURL = "https://mock-s3.example.com"
	}

	return &MockS3Client{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

// Put stores an object in memory and returns a mock URL
func (m *MockS3Client) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.putCalls++

	if m.forceError {
		return "", errors.New(m.errorMessage)
	}

	// Make a copy of the data to avoid external modifications
	data := make([]byte, len(body))
	copy(data, body)

	m.objects[key] = data
	m.contentTypes[key] = contentType

	return m.url(key), nil
}

// Get returns a stored object
func (m *MockS3Client) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.forceError {
		return nil, errors.New(m.errorMessage)
	}

	data, exists := m.objects[key]
	if !exists {
		return nil, fmt.Errorf("object with key %s not found", key)
	}

	return append([]byte(nil), data...), nil
}

// Delete removes an object from memory
func (m *MockS3Client) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteCalls++

	if m.forceError {
		return errors.New(m.errorMessage)
	}

	if _, exists := m.objects[key]; !exists {
		return fmt.Errorf("object with key %s not found", key)
	}

	delete(m.objects, key)
	delete(m.contentTypes, key)

	return nil
}

// GetURL returns a mock URL for the given key
func (m *MockS3Client) GetURL(key string) string {
	return m.url(key)
}

func (m *MockS3Client) url(key string) string {
	return fmt.Sprintf("%s/%s", m.baseURL, key)
}

// ContentType returns the content type an object was stored with (helper for tests)
func (m *MockS3Client) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.contentTypes[key]
}

// Keys returns the keys of every stored object (helper for tests)
func (m *MockS3Client) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}

// SetError configures the mock to return an error on operations
func (m *MockS3Client) SetError(enable bool, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forceError = enable
	if enable {
		m.errorMessage = message
	} else {
		m.errorMessage = ""
	}
}

// GetCallCounts returns the number of calls to Put and Delete (helper for tests)
func (m *MockS3Client) GetCallCounts() (puts, deletes int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.putCalls, m.deleteCalls
}

// Reset clears all stored objects and resets call counters
func (m *MockS3Client) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects = make(map[string][]byte)
	m.contentTypes = make(map[string]string)
	m.putCalls = 0
	m.deleteCalls = 0
	m.forceError = false
	m.errorMessage = ""
}

// ObjectCount returns the number of objects stored (helper for tests)
func (m *MockS3Client) ObjectCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.objects)
}

// HasObject checks if an object with the given key exists (helper for tests)
func (m *MockS3Client) HasObject(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.objects[key]
	return exists
}

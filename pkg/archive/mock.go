package archive

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockClient is an in-memory archive client for testing
type MockClient struct {
	mu        sync.Mutex
	records   map[string]Record
	order     []string // ids in creation order
	createErr error
	updateErr error
	getErr    error
	listErr   error

	CreateCalls int
	UpdateCalls int
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithRecords seeds the mock with existing records
func WithRecords(records ...Record) MockOption {
	return func(m *MockClient) {
		for _, rec := range records {
			if rec.ID == "" {
				rec.ID = uuid.NewString()
			}
			m.records[rec.ID] = rec
			m.order = append(m.order, rec.ID)
		}
	}
}

// WithCreateError sets an error to return from CreateRecord
func WithCreateError(err error) MockOption {
	return func(m *MockClient) { m.createErr = err }
}

// WithUpdateError sets an error to return from UpdateRecord
func WithUpdateError(err error) MockOption {
	return func(m *MockClient) { m.updateErr = err }
}

// WithGetError sets an error to return from GetRecord
func WithGetError(err error) MockOption {
	return func(m *MockClient) { m.getErr = err }
}

// WithListError sets an error to return from ListRecords
func WithListError(err error) MockOption {
	return func(m *MockClient) { m.listErr = err }
}

// NewMockClient creates a new mock archive client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{records: make(map[string]Record)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateRecord stores the record under a generated id
func (m *MockClient) CreateRecord(ctx context.Context, rec Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.createErr != nil {
		return "", m.createErr
	}
	rec.ID = uuid.NewString()
	m.records[rec.ID] = rec
	m.order = append(m.order, rec.ID)
	return rec.ID, nil
}

// UpdateRecord replaces the stored record with the given id
func (m *MockClient) UpdateRecord(ctx context.Context, id string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("record %s not found", id)
	}
	rec.ID = id
	m.records[id] = rec
	return nil
}

// GetRecord returns the stored record with the given id
func (m *MockClient) GetRecord(ctx context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("record %s not found", id)
	}
	return &rec, nil
}

// ListRecords returns stored records in creation order
func (m *MockClient) ListRecords(ctx context.Context, date string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []Record
	for _, id := range m.order {
		rec := m.records[id]
		if date == "" || rec.Date == date {
			out = append(out, rec)
		}
	}
	return out, nil
}

// BaseURL returns a placeholder URL
func (m *MockClient) BaseURL() string {
	return "mock://archive"
}

// Record returns the stored record by id for test assertions.
func (m *MockClient) Record(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	return rec, ok
}

package covstore

import "sync"

// Memory is an in-process Store. It is safe for concurrent use and is
// the default backend for tests and single-process deployments.
type Memory struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: map[string]Record{}}
}

// Get implements Store.
func (m *Memory) Get(id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records[id], nil
}

// Mark implements Store.
func (m *Memory) Mark(id string, accessed, rendered bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.records[id]
	rec.merge(Record{Accessed: accessed, Rendered: rendered})
	m.records[id] = rec
	return nil
}

// All implements Store.
func (m *Memory) All() (map[string]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := make(map[string]Record, len(m.records))
	for k, v := range m.records {
		cp[k] = v
	}
	return cp, nil
}

// Reset implements Store.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = map[string]Record{}
	return nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }

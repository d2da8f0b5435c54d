package backend

import (
	"context"
	"sync"
)

// memory lives as long as the process, which makes the process the session.
type memory struct {
	mutex   *sync.RWMutex
	records map[string][]byte
}

func (m *memory) Read(_ context.Context, key string) ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if blob, ok := m.records[key]; ok {
		copied := make([]byte, len(blob))
		copy(copied, blob)
		return copied, nil
	}
	return nil, nil
}

func (m *memory) Write(_ context.Context, key string, blob []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	copied := make([]byte, len(blob))
	copy(copied, blob)
	m.records[key] = copied
	return nil
}

func (m *memory) Delete(_ context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.records, key)
	return nil
}

func (m *memory) Close() error { return nil }

func NewMemoryBackend() Backend {
	return &memory{
		mutex:   &sync.RWMutex{},
		records: map[string][]byte{},
	}
}

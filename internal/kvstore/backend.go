package kvstore

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrQuotaExceeded is returned by a backend that has no room for a write.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrUnavailable is returned by a backend whose medium is disabled.
	ErrUnavailable = errors.New("storage unavailable")
)

// Backend is a synchronous string-keyed medium. Implementations only move
// raw strings; encoding and fault tolerance live in the Adapter.
type Backend interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// MemoryBackend keeps items in a map. It backs tests and the degraded
// mode used when the persistent medium cannot be opened.
type MemoryBackend struct {
	mu       sync.Mutex
	items    map[string]string
	quota    int
	disabled bool
}

// NewMemoryBackend returns an empty, unlimited in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string]string)}
}

// SetQuota limits the total number of bytes (keys + values) the backend
// will hold. Zero means unlimited.
func (m *MemoryBackend) SetQuota(bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quota = bytes
}

// Disable makes every subsequent operation fail with ErrUnavailable.
func (m *MemoryBackend) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disabled = true
}

// Enable reverses Disable.
func (m *MemoryBackend) Enable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disabled = false
}

// Raw writes value without going through the adapter, e.g. to plant
// corrupted data in tests.
func (m *MemoryBackend) Raw(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

// Len returns the number of stored items.
func (m *MemoryBackend) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *MemoryBackend) GetItem(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disabled {
		return "", false, ErrUnavailable
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryBackend) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disabled {
		return ErrUnavailable
	}
	if m.quota > 0 {
		used := 0
		for k, v := range m.items {
			if k == key {
				continue
			}
			used += len(k) + len(v)
		}
		if used+len(key)+len(value) > m.quota {
			return fmt.Errorf("set %q (%d bytes): %w", key, len(value), ErrQuotaExceeded)
		}
	}
	m.items[key] = value
	return nil
}

func (m *MemoryBackend) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disabled {
		return ErrUnavailable
	}
	delete(m.items, key)
	return nil
}

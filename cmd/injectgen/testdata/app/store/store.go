package store

import "sync"

type closer interface {
	Close() error
}

// Store keeps greetings by name.
type Store interface {
	Put(key, value string)
	Get(key string) (string, bool)
}

// Memory is an in-memory Store.
//
//inject:injectable
type Memory struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemory() *Memory {
	return &Memory{items: map[string]string{}}
}

func (m *Memory) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *Memory) Close() error { return nil }

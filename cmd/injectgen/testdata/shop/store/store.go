package store

// closer is satisfied by stores holding resources.
type closer interface {
	Close() error
}

// Store persists orders.
type Store interface {
	Save(id string) error
}

// Reader loads orders.
type Reader interface {
	Load(id string) (string, error)
}

// MemoryStore keeps orders in memory.
//
//inject:injectable
type MemoryStore struct {
	items map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]string{}}
}

func (m *MemoryStore) Save(id string) error {
	m.items[id] = id
	return nil
}

func (m *MemoryStore) Load(id string) (string, error) {
	return m.items[id], nil
}

func (m *MemoryStore) Close() error {
	clear(m.items)
	return nil
}

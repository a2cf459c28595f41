package store

import (
	"context"
	"sync"
)

// MemoryRemote is an in-process Remote. Subscribers are notified synchronously
// from the goroutine calling Set.
type MemoryRemote struct {
	mu     sync.Mutex
	values map[string][]byte
	subs   map[string]map[int]func(Snapshot)
	nextID int
}

// NewMemoryRemote creates an empty in-process store.
func NewMemoryRemote() *MemoryRemote {
	return &MemoryRemote{
		values: make(map[string][]byte),
		subs:   make(map[string]map[int]func(Snapshot)),
	}
}

// Set stores value under key and notifies every subscriber of key.
func (m *MemoryRemote) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := append([]byte(nil), value...)

	m.mu.Lock()
	m.values[key] = stored
	snapshot := Snapshot{Key: key, Value: stored, Exists: true}
	callbacks := make([]func(Snapshot), 0, len(m.subs[key]))
	for _, fn := range m.subs[key] {
		callbacks = append(callbacks, fn)
	}
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(snapshot)
	}

	return nil
}

// Subscribe delivers the current value of key before returning.
func (m *MemoryRemote) Subscribe(ctx context.Context, key string, onValue func(Snapshot)) (Unsubscribe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	if m.subs[key] == nil {
		m.subs[key] = make(map[int]func(Snapshot))
	}
	m.subs[key][id] = onValue
	value, exists := m.values[key]
	m.mu.Unlock()

	onValue(Snapshot{Key: key, Value: value, Exists: exists})

	var once sync.Once
	remove := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs[key], id)
			m.mu.Unlock()
		})
	}
	stop := context.AfterFunc(ctx, remove)

	return func() {
		stop()
		remove()
	}, nil
}

// Ping always succeeds unless ctx is done.
func (m *MemoryRemote) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Subscribers returns the number of active subscriptions on key.
func (m *MemoryRemote) Subscribers(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.subs[key])
}

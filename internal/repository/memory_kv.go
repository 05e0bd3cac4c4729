package repository

import (
	"bytes"
	"context"
	"sync"

	"github.com/nikolayk812/storefront/internal/port"
)

// watchBuffer bounds queued change notifications per watcher.
const watchBuffer = 64

// MemoryKV keeps documents in process memory. Handles sharing one MemoryKV
// behave like views sharing one browser storage.
type MemoryKV struct {
	mu       sync.RWMutex
	data     map[string][]byte
	watchers map[chan string]struct{}
}

var (
	_ port.KVStore = (*MemoryKV)(nil)
	_ port.Watcher = (*MemoryKV)(nil)
)

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		data:     map[string][]byte{},
		watchers: map[chan string]struct{}{},
	}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, port.ErrKeyNotFound
	}

	return bytes.Clone(value), nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.data[key] = bytes.Clone(value)
	m.mu.Unlock()

	m.notify(key)
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()

	m.notify(key)
	return nil
}

func (m *MemoryKV) Watch(ctx context.Context, fn func(key string)) error {
	ch := make(chan string, watchBuffer)

	m.mu.Lock()
	m.watchers[ch] = struct{}{}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.watchers, ch)
		m.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case key := <-ch:
			fn(key)
		}
	}
}

// notify never blocks a writer; a watcher that is behind already has a queued
// notification that will make it re-read current state.
func (m *MemoryKV) notify(key string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for ch := range m.watchers {
		select {
		case ch <- key:
		default:
		}
	}
}

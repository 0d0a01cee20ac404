// Package memory provides an in-process KeyValueStore, used for tests and
// for the "memory" store driver.
package memory

import (
	"context"
	"sync"

	"github.com/example/shiftlog/internal/ports/secondary"
)

// KVStore is a map-backed KeyValueStore. Put failures can be injected.
type KVStore struct {
	mu     sync.Mutex
	values map[string][]byte
	putErr map[string]error
	puts   map[string]int
}

// NewKVStore creates an empty store.
func NewKVStore() *KVStore {
	return &KVStore{
		values: make(map[string][]byte),
		putErr: make(map[string]error),
		puts:   make(map[string]int),
	}
}

// Get returns a copy of the value under key.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	if !ok {
		return nil, secondary.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put replaces the value under key, unless a failure was injected for it.
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.putErr[key]; err != nil {
		return err
	}
	s.values[key] = append([]byte(nil), value...)
	s.puts[key]++
	return nil
}

// Delete removes key.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Close is a no-op.
func (s *KVStore) Close() error { return nil }

// FailPuts makes every Put to key return err. A nil err clears the failure.
func (s *KVStore) FailPuts(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.putErr, key)
		return
	}
	s.putErr[key] = err
}

// SetRaw stores value under key without any checks, for seeding corrupt data.
func (s *KVStore) SetRaw(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
}

// PutCount returns the number of successful Puts to key.
func (s *KVStore) PutCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts[key]
}

// Keys returns the number of stored keys.
func (s *KVStore) Keys() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

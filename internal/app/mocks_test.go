package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/example/shiftlog/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockPersister implements secondary.Persister for testing.
type mockPersister struct {
	mu        sync.Mutex
	scheduled int
	now       int
	cancelled int
	closed    int
	pending   bool
	nowErr    error
}

func (m *mockPersister) SchedulePersist() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduled++
	m.pending = true
}

func (m *mockPersister) PersistNow(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now++
	m.pending = false
	return m.nowErr
}

func (m *mockPersister) CancelPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled++
	was := m.pending
	m.pending = false
	return was
}

func (m *mockPersister) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

func (m *mockPersister) counts() (scheduled, now int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheduled, m.now
}

// mockRenderer implements secondary.Renderer for testing.
type mockRenderer struct {
	mu    sync.Mutex
	views []secondary.ViewSnapshot
	err   error
}

func (m *mockRenderer) Render(ctx context.Context, view secondary.ViewSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views = append(m.views, view)
	return m.err
}

func (m *mockRenderer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

func (m *mockRenderer) last() secondary.ViewSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.views[len(m.views)-1]
}

// mockFileStore implements secondary.FileStore in memory.
type mockFileStore struct {
	files map[string][]byte
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{files: make(map[string][]byte)}
}

func (m *mockFileStore) WriteFile(ctx context.Context, path, defaultName string, data []byte) (string, error) {
	if path == "" {
		path = defaultName
	} else if filepath.Ext(path) == "" {
		path = filepath.Join(path, defaultName)
	}
	m.files[path] = append([]byte(nil), data...)
	return path, nil
}

func (m *mockFileStore) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

// fakeClock implements secondary.Clock with a settable time.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// seqIDs implements secondary.IDGenerator with predictable ids.
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%03d", g.n)
}

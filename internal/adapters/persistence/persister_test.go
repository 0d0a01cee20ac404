package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shiftlog/internal/adapters/memory"
	"github.com/example/shiftlog/internal/metrics"
	"github.com/example/shiftlog/internal/models"
)

const dataKey = "data"

// liveState is a mutex-guarded State standing in for the coordinator.
type liveState struct {
	mu sync.Mutex
	s  models.State
}

func (l *liveState) set(s models.State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.s = s
}

func (l *liveState) snapshot() models.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Clone()
}

type persisterFixture struct {
	store     *memory.KVStore
	sched     *manualScheduler
	live      *liveState
	ring      *BackupRing
	metrics   *metrics.Persistence
	persister *StorePersister[models.State]
}

func newPersisterFixture(t *testing.T, sched Scheduler) *persisterFixture {
	t.Helper()
	f := &persisterFixture{
		store:   memory.NewKVStore(),
		live:    &liveState{s: models.DefaultState()},
		metrics: metrics.NewPersistence(),
	}
	if sched == nil {
		f.sched = &manualScheduler{}
		sched = f.sched
	}
	f.ring = newTestRing(f.store, 5)
	f.persister = NewStorePersister(StorePersisterOptions[models.State]{
		Name:      "data",
		Key:       dataKey,
		Codec:     NewCodec[models.State](f.store, nil, nil),
		Snapshot:  f.live.snapshot,
		Backup:    f.ring,
		Scheduler: sched,
		Window:    150 * time.Millisecond,
		Metrics:   f.metrics,
	})
	return f
}

func (f *persisterFixture) stored(t *testing.T) models.State {
	t.Helper()
	got, ok := NewCodec[models.State](f.store, nil, nil).Read(context.Background(), dataKey)
	require.True(t, ok, "expected primary key to hold a state")
	return got
}

func (f *persisterFixture) sample(t *testing.T, name string) float64 {
	t.Helper()
	samples, err := f.metrics.Gather()
	require.NoError(t, err)
	for _, s := range samples {
		if s.Name == name {
			return s.Value
		}
	}
	return 0
}

func TestStorePersister_BurstWritesLatestOnce(t *testing.T) {
	f := newPersisterFixture(t, nil)

	var last models.State
	for i := 1; i <= 10; i++ {
		last = stateWithRequests(i)
		f.live.set(last)
		f.persister.SchedulePersist()
	}

	assert.True(t, f.persister.Pending())
	assert.Equal(t, 0, f.store.PutCount(dataKey), "nothing written inside the window")
	assert.Equal(t, 1, f.sched.FireAll())
	assert.Equal(t, 1, f.store.PutCount(dataKey))

	if diff := cmp.Diff(last, f.stored(t)); diff != "" {
		t.Errorf("stored state mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, f.ring.List(context.Background()), 1)
	assert.Equal(t, 9.0, f.sample(t, `shiftlog_persist_coalesced_total{store="data"}`))
	assert.Equal(t, 1.0, f.sample(t, `shiftlog_store_writes_total{outcome="ok",store="data"}`))
}

func TestStorePersister_SnapshotTakenAtFireTime(t *testing.T) {
	f := newPersisterFixture(t, nil)

	f.live.set(stateWithRequests(1))
	f.persister.SchedulePersist()
	f.live.set(stateWithRequests(3))
	f.sched.FireAll()

	assert.Len(t, f.stored(t).Requests, 3)
}

func TestStorePersister_PersistNowCancelsPending(t *testing.T) {
	ctx := context.Background()
	f := newPersisterFixture(t, nil)

	f.live.set(stateWithRequests(2))
	f.persister.SchedulePersist()
	require.NoError(t, f.persister.PersistNow(ctx))

	assert.False(t, f.persister.Pending())
	assert.Equal(t, 0, f.sched.FireAll())
	assert.Equal(t, 1, f.store.PutCount(dataKey))
	assert.Len(t, f.stored(t).Requests, 2)
}

func TestStorePersister_PrimaryFailureSkipsBackup(t *testing.T) {
	ctx := context.Background()
	f := newPersisterFixture(t, nil)
	boom := errors.New("quota exceeded")

	f.store.FailPuts(dataKey, boom)
	f.live.set(stateWithRequests(1))

	err := f.persister.PersistNow(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, f.ring.List(ctx))
	assert.Equal(t, 1.0, f.sample(t, `shiftlog_store_writes_total{outcome="error",store="data"}`))

	// Scheduled writes swallow the error and retry on the next cycle.
	f.persister.SchedulePersist()
	f.sched.FireAll()
	assert.Equal(t, 0, f.store.PutCount(dataKey))

	f.store.FailPuts(dataKey, nil)
	f.persister.SchedulePersist()
	f.sched.FireAll()
	assert.Len(t, f.stored(t).Requests, 1)
}

func TestStorePersister_BackupFailureKeepsPrimary(t *testing.T) {
	ctx := context.Background()
	f := newPersisterFixture(t, nil)
	f.store.FailPuts(ringKey, errors.New("quota exceeded"))

	f.live.set(stateWithRequests(4))
	require.NoError(t, f.persister.PersistNow(ctx))

	assert.Len(t, f.stored(t).Requests, 4)
	assert.Equal(t, 1.0, f.sample(t, `shiftlog_backup_writes_total{outcome="error"}`))
}

func TestStorePersister_CloseFlushesPending(t *testing.T) {
	ctx := context.Background()
	f := newPersisterFixture(t, nil)

	f.live.set(stateWithRequests(5))
	f.persister.SchedulePersist()
	require.NoError(t, f.persister.Close(ctx))

	assert.Len(t, f.stored(t).Requests, 5)
	assert.Equal(t, 0, f.sched.FireAll())

	f.persister.SchedulePersist()
	assert.False(t, f.persister.Pending(), "schedule after Close is ignored")
}

func TestStorePersister_CloseWithoutPendingWritesNothing(t *testing.T) {
	f := newPersisterFixture(t, nil)
	require.NoError(t, f.persister.Close(context.Background()))
	assert.Equal(t, 0, f.store.PutCount(dataKey))
}

func TestStorePersister_SystemScheduler(t *testing.T) {
	f := newPersisterFixture(t, SystemScheduler{})
	f.persister = NewStorePersister(StorePersisterOptions[models.State]{
		Name:     "data",
		Key:      dataKey,
		Codec:    NewCodec[models.State](f.store, nil, nil),
		Snapshot: f.live.snapshot,
		Window:   20 * time.Millisecond,
	})

	f.live.set(stateWithRequests(2))
	for i := 0; i < 5; i++ {
		f.persister.SchedulePersist()
	}

	require.Eventually(t, func() bool {
		return f.store.PutCount(dataKey) >= 1
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, f.persister.Close(context.Background()))
	assert.Len(t, f.stored(t).Requests, 2)
}

package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/shiftlog/internal/adapters/memory"
	"github.com/example/shiftlog/internal/models"
)

const ringKey = "backups"

func newTestRing(store *memory.KVStore, capacity int) *BackupRing {
	ts := time.UnixMilli(1_700_000_000_000)
	n := 0
	return NewBackupRing(BackupRingOptions{
		Store:    store,
		Key:      ringKey,
		Capacity: capacity,
		Now: func() time.Time {
			ts = ts.Add(time.Second)
			return ts
		},
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
}

func stateWithRequests(n int) models.State {
	s := models.DefaultState()
	for i := 0; i < n; i++ {
		s.Requests = append(s.Requests, models.Request{ID: fmt.Sprintf("r%d", i), Num: fmt.Sprint(i), Addr: "a"})
	}
	return s
}

func TestBackupRing_BoundedNewestFirst(t *testing.T) {
	ctx := context.Background()
	ring := newTestRing(memory.NewKVStore(), 5)

	for i := 1; i <= 7; i++ {
		if err := ring.Record(ctx, stateWithRequests(i)); err != nil {
			t.Fatalf("Record %d failed: %v", i, err)
		}
	}

	entries := ring.List(ctx)
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	for i, e := range entries {
		want := 7 - i
		if len(e.Snapshot.Requests) != want {
			t.Errorf("entry %d has %d requests, want %d", i, len(e.Snapshot.Requests), want)
		}
		if i > 0 && e.Timestamp >= entries[i-1].Timestamp {
			t.Errorf("entry %d timestamp %d not older than %d", i, e.Timestamp, entries[i-1].Timestamp)
		}
	}
}

func TestBackupRing_RecordCopiesState(t *testing.T) {
	ctx := context.Background()
	ring := newTestRing(memory.NewKVStore(), 5)

	s := stateWithRequests(1)
	if err := ring.Record(ctx, s); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	s.Requests[0].Addr = "changed"

	latest, ok := ring.RestoreLatest(ctx)
	if !ok {
		t.Fatal("expected a backup")
	}
	if latest.Snapshot.Requests[0].Addr != "a" {
		t.Errorf("backup mutated with live state: %q", latest.Snapshot.Requests[0].Addr)
	}
}

func TestBackupRing_SkipsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	store.SetRaw(ringKey, []byte(`[
		{"timestamp":3,"snapshot":"not a state"},
		{"timestamp":2,"snapshot":{"v":99}},
		{"timestamp":1,"snapshot":{"requests":[{"num":"7","addr":"x"}]}}
	]`))
	ring := newTestRing(store, 5)

	entries := ring.List(ctx)
	if len(entries) != 1 || entries[0].Timestamp != 1 {
		t.Fatalf("expected only the legacy entry, got %+v", entries)
	}

	latest, ok := ring.RestoreLatest(ctx)
	if !ok {
		t.Fatal("expected a usable backup")
	}
	if latest.Snapshot.Version != models.CurrentSchemaVersion {
		t.Errorf("restored version = %d, want %d", latest.Snapshot.Version, models.CurrentSchemaVersion)
	}
	if latest.Snapshot.Requests[0].ID == "" {
		t.Error("restored legacy request should receive an id")
	}
}

func TestBackupRing_UnreadableRing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	store.SetRaw(ringKey, []byte(`{broken`))
	ring := newTestRing(store, 5)

	if got := ring.candidates(ctx); got != nil {
		t.Errorf("expected no candidates, got %v", got)
	}
	if _, ok := ring.RestoreLatest(ctx); ok {
		t.Error("expected no backup from an unreadable ring")
	}

	if err := ring.Record(ctx, stateWithRequests(2)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if got := len(ring.List(ctx)); got != 1 {
		t.Errorf("expected ring to restart with 1 entry, got %d", got)
	}
}

func TestBackupRing_WriteFailure(t *testing.T) {
	store := memory.NewKVStore()
	boom := errors.New("quota exceeded")
	store.FailPuts(ringKey, boom)
	ring := newTestRing(store, 5)

	if err := ring.Record(context.Background(), stateWithRequests(1)); !errors.Is(err, boom) {
		t.Errorf("Record error = %v, want %v", err, boom)
	}
}

func TestBackupRing_DefaultCapacity(t *testing.T) {
	ctx := context.Background()
	ring := NewBackupRing(BackupRingOptions{Store: memory.NewKVStore(), Key: ringKey})
	for i := 0; i < DefaultBackupCapacity+2; i++ {
		if err := ring.Record(ctx, stateWithRequests(i)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if got := len(ring.List(ctx)); got != DefaultBackupCapacity {
		t.Errorf("kept %d entries, want %d", got, DefaultBackupCapacity)
	}
}

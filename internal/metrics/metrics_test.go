package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPersistence_Counts(t *testing.T) {
	m := NewPersistence()

	m.ObserveWrite("data", nil)
	m.ObserveWrite("data", nil)
	m.ObserveWrite("data", errors.New("disk full"))
	m.ObserveBackup(nil)
	m.ObserveCoalesced("settings")

	if got := testutil.ToFloat64(m.writes.WithLabelValues("data", "ok")); got != 2 {
		t.Errorf("ok writes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.writes.WithLabelValues("data", "error")); got != 1 {
		t.Errorf("error writes = %v, want 1", got)
	}

	samples, err := m.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	found := false
	for _, s := range samples {
		if s.Name == `shiftlog_persist_coalesced_total{store="settings"}` && s.Value == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("coalesced sample missing from %+v", samples)
	}
}

func TestPersistence_NilIsNoop(t *testing.T) {
	var m *Persistence
	m.ObserveWrite("data", nil)
	m.ObserveBackup(nil)
	m.ObserveCoalesced("data")
	m.ObserveLoad("fresh")
	samples, err := m.Gather()
	if err != nil || samples != nil {
		t.Errorf("expected nil samples, got %v, %v", samples, err)
	}
}

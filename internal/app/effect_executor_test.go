package app

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/shiftlog/internal/core/effects"
)

type unknownEffect struct{}

func (unknownEffect) EffectType() string { return "unknown" }

func TestEffectExecutor_Persist(t *testing.T) {
	dataP := &mockPersister{}
	settingsP := &mockPersister{}
	exec := NewEffectExecutor(dataP, settingsP, nil, nil)

	err := exec.Execute(context.Background(), []effects.Effect{
		effects.PersistEffect{Store: effects.StoreData, Mode: effects.PersistScheduled},
		effects.PersistEffect{Store: effects.StoreSettings, Mode: effects.PersistImmediate},
		effects.RenderEffect{},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if sched, now := dataP.counts(); sched != 1 || now != 0 {
		t.Errorf("data persister = (%d scheduled, %d now), want (1, 0)", sched, now)
	}
	if sched, now := settingsP.counts(); sched != 0 || now != 1 {
		t.Errorf("settings persister = (%d scheduled, %d now), want (0, 1)", sched, now)
	}
}

func TestEffectExecutor_Errors(t *testing.T) {
	exec := NewEffectExecutor(&mockPersister{}, &mockPersister{}, &mockRenderer{}, nil)

	tests := []struct {
		name string
		eff  effects.Effect
	}{
		{name: "unknown store", eff: effects.PersistEffect{Store: "cache", Mode: effects.PersistImmediate}},
		{name: "unknown mode", eff: effects.PersistEffect{Store: effects.StoreData, Mode: "later"}},
		{name: "unknown effect", eff: unknownEffect{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := exec.Execute(context.Background(), []effects.Effect{tt.eff}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEffectExecutor_Log(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	exec := NewEffectExecutor(&mockPersister{}, &mockPersister{}, nil, zap.New(core))

	err := exec.Execute(context.Background(), []effects.Effect{
		effects.LogEffect{Level: "warn", Message: "recovered", Fields: map[string]any{"backup_timestamp": int64(7)}},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	entries := logs.FilterMessage("recovered").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("level = %v, want warn", entries[0].Level)
	}
	if got := entries[0].ContextMap()["backup_timestamp"]; got != int64(7) {
		t.Errorf("backup_timestamp = %v, want 7", got)
	}
}

func TestEffectExecutor_RenderFailureLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	renderer := &mockRenderer{err: errors.New("broken pipe")}
	exec := NewEffectExecutor(&mockPersister{}, &mockPersister{}, renderer, zap.New(core))

	if err := exec.Execute(context.Background(), []effects.Effect{effects.RenderEffect{}}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	entries := logs.FilterMessage("render failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("level = %v, want warn", entries[0].Level)
	}
}

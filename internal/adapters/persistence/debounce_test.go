package persistence

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesTriggers(t *testing.T) {
	sched := &manualScheduler{}
	var calls atomic.Int32
	d := NewDebouncer(sched, 150*time.Millisecond, func() { calls.Add(1) })

	if d.Trigger() {
		t.Error("first trigger should not replace anything")
	}
	for i := 0; i < 9; i++ {
		if !d.Trigger() {
			t.Errorf("trigger %d should replace the pending call", i+2)
		}
	}
	if sched.Live() != 1 {
		t.Fatalf("expected 1 live timer, got %d", sched.Live())
	}
	if got := sched.Timer(0).delay; got != 150*time.Millisecond {
		t.Errorf("delay = %v, want 150ms", got)
	}

	sched.FireAll()
	if got := calls.Load(); got != 1 {
		t.Errorf("fn called %d times, want 1", got)
	}
	if d.Pending() {
		t.Error("nothing should be pending after firing")
	}
}

func TestDebouncer_StaleCallbackIgnored(t *testing.T) {
	sched := &manualScheduler{}
	var calls atomic.Int32
	d := NewDebouncer(sched, time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	stale := sched.Timer(0).f
	d.Trigger()

	// The first timer expired before Stop could catch it.
	stale()
	if got := calls.Load(); got != 0 {
		t.Fatalf("stale callback ran fn %d times", got)
	}

	sched.FireAll()
	if got := calls.Load(); got != 1 {
		t.Errorf("fn called %d times, want 1", got)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	sched := &manualScheduler{}
	var calls atomic.Int32
	d := NewDebouncer(sched, time.Millisecond, func() { calls.Add(1) })

	if d.Cancel() {
		t.Error("Cancel with nothing pending should report false")
	}
	d.Trigger()
	if !d.Cancel() {
		t.Error("Cancel should report the pending call")
	}
	if n := sched.FireAll(); n != 0 {
		t.Errorf("expected no live timers, fired %d", n)
	}
	if calls.Load() != 0 {
		t.Error("cancelled call ran")
	}
}

func TestDebouncer_Defaults(t *testing.T) {
	d := NewDebouncer(nil, 0, func() {})
	if d.window != DefaultDebounceWindow {
		t.Errorf("window = %v, want %v", d.window, DefaultDebounceWindow)
	}
	if _, ok := d.sched.(SystemScheduler); !ok {
		t.Errorf("scheduler = %T, want SystemScheduler", d.sched)
	}
}

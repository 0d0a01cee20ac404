package persistence

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is the quiet period before a scheduled write fires.
const DefaultDebounceWindow = 150 * time.Millisecond

// Cancelable is a pending scheduled call.
type Cancelable interface {
	// Stop prevents the call from running. It reports whether the call was
	// still pending.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Cancelable
}

// SystemScheduler schedules on the runtime timer.
type SystemScheduler struct{}

// AfterFunc wraps time.AfterFunc.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Cancelable {
	return time.AfterFunc(d, f)
}

// Debouncer coalesces triggers into one call that runs after the window has
// passed without another trigger. At most one call is pending at a time.
type Debouncer struct {
	mu      sync.Mutex
	sched   Scheduler
	window  time.Duration
	fn      func()
	pending Cancelable
	gen     uint64
}

// NewDebouncer creates a debouncer that calls fn.
func NewDebouncer(sched Scheduler, window time.Duration, fn func()) *Debouncer {
	if sched == nil {
		sched = SystemScheduler{}
	}
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{sched: sched, window: window, fn: fn}
}

// Trigger restarts the window. It reports whether a pending call was replaced.
func (d *Debouncer) Trigger() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	replaced := false
	if d.pending != nil {
		d.pending.Stop()
		replaced = true
	}
	d.gen++
	gen := d.gen
	d.pending = d.sched.AfterFunc(d.window, func() { d.fire(gen) })
	return replaced
}

// Cancel drops the pending call. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending == nil {
		return false
	}
	d.pending.Stop()
	d.pending = nil
	d.gen++
	return true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// fire runs fn unless the callback was superseded after its timer expired.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.mu.Unlock()

	d.fn()
}

package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/shiftlog/internal/metrics"
)

// Recorder receives every value written successfully to the primary key.
type Recorder[T any] interface {
	Record(ctx context.Context, v T) error
}

// StorePersisterOptions configures a StorePersister.
type StorePersisterOptions[T any] struct {
	Name      string // metrics and log label
	Key       string
	Codec     *Codec[T]
	Snapshot  func() T // called at write time
	Backup    Recorder[T]
	Scheduler Scheduler
	Window    time.Duration
	Logger    *zap.Logger
	Metrics   *metrics.Persistence
}

// StorePersister writes a snapshot of one value to one key, debounced or
// immediately. It implements secondary.Persister.
type StorePersister[T any] struct {
	name      string
	key       string
	codec     *Codec[T]
	snapshot  func() T
	backup    Recorder[T]
	logger    *zap.Logger
	metrics   *metrics.Persistence
	debouncer *Debouncer

	writeMu sync.Mutex
	closeMu sync.Mutex
	closed  bool
}

// NewStorePersister creates a persister.
func NewStorePersister[T any](opts StorePersisterOptions[T]) *StorePersister[T] {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &StorePersister[T]{
		name:     opts.Name,
		key:      opts.Key,
		codec:    opts.Codec,
		snapshot: opts.Snapshot,
		backup:   opts.Backup,
		logger:   logger.With(zap.String("store", opts.Name)),
		metrics:  opts.Metrics,
	}
	p.debouncer = NewDebouncer(opts.Scheduler, opts.Window, p.fire)
	return p
}

// SchedulePersist restarts the debounce window. It does nothing after Close.
func (p *StorePersister[T]) SchedulePersist() {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return
	}
	if p.debouncer.Trigger() {
		p.metrics.ObserveCoalesced(p.name)
	}
}

// Pending reports whether a debounced write is scheduled.
func (p *StorePersister[T]) Pending() bool {
	return p.debouncer.Pending()
}

// PersistNow cancels any pending write and writes synchronously.
func (p *StorePersister[T]) PersistNow(ctx context.Context) error {
	p.debouncer.Cancel()
	return p.write(ctx)
}

// CancelPending drops a scheduled write.
func (p *StorePersister[T]) CancelPending() bool {
	return p.debouncer.Cancel()
}

// Close writes a pending value, if any, and stops scheduling. A write already
// running on the timer completes before Close returns.
func (p *StorePersister[T]) Close(ctx context.Context) error {
	p.closeMu.Lock()
	p.closed = true
	p.closeMu.Unlock()

	if p.debouncer.Cancel() {
		return p.write(ctx)
	}
	p.writeMu.Lock()
	p.writeMu.Unlock() //nolint:staticcheck // waits for an in-flight write
	return nil
}

func (p *StorePersister[T]) fire() {
	// Failures are logged and counted in write; the next schedule retries.
	_ = p.write(context.Background())
}

func (p *StorePersister[T]) write(ctx context.Context) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	v := p.snapshot()
	err := p.codec.Write(ctx, p.key, v)
	p.metrics.ObserveWrite(p.name, err)
	if err != nil {
		p.logger.Error("persist failed", zap.String("key", p.key), zap.Error(err))
		return fmt.Errorf("failed to persist %s: %w", p.name, err)
	}
	p.logger.Debug("persisted", zap.String("key", p.key))

	if p.backup == nil {
		return nil
	}
	berr := p.backup.Record(ctx, v)
	p.metrics.ObserveBackup(berr)
	if berr != nil {
		p.logger.Warn("backup failed", zap.Error(berr))
	}
	return nil
}

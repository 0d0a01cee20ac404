package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/example/shiftlog/internal/core/effects"
	"github.com/example/shiftlog/internal/models"
	"github.com/example/shiftlog/internal/ports/secondary"
)

// Mutator changes state and settings in place. Returning an error (or
// panicking) discards every change it made.
type Mutator func(data *models.State, settings *models.Settings) error

// DispatchOptions selects which stores a mutation dirties.
type DispatchOptions struct {
	PersistData     bool
	PersistSettings bool
}

// Dispatcher exclusively owns the in-memory state. Every mutation goes
// through Dispatch, which schedules persistence and re-renders.
type Dispatcher struct {
	mu       sync.Mutex
	data     models.State
	settings models.Settings
	executor EffectExecutor
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher over the loaded state.
func NewDispatcher(data models.State, settings models.Settings, executor EffectExecutor, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		data:     data,
		settings: settings,
		executor: executor,
		logger:   logger,
	}
}

// Dispatch applies m to a working copy and commits it when m succeeds. On
// success the planned persists and render run; on failure nothing is
// persisted or rendered and the error is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, m Mutator, opts DispatchOptions) error {
	d.mu.Lock()
	data := d.data.Clone()
	settings := d.settings.Clone()
	if m != nil {
		if err := runMutator(m, &data, &settings); err != nil {
			d.mu.Unlock()
			d.logger.Debug("mutation rejected", zap.Error(err))
			return err
		}
	}
	d.data = data
	d.settings = settings
	effs := effects.PlanDispatch(opts.PersistData, opts.PersistSettings, data.Clone(), settings.Clone())
	executor := d.executor
	d.mu.Unlock()

	return executor.Execute(ctx, effs)
}

func runMutator(m Mutator, data *models.State, settings *models.Settings) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mutation panicked: %v", r)
		}
	}()
	return m(data, settings)
}

// View returns a copy of the current state and settings.
func (d *Dispatcher) View() secondary.ViewSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return secondary.ViewSnapshot{Data: d.data.Clone(), Settings: d.settings.Clone()}
}

// Data returns a copy of the current state. Used as the data persister's snapshot.
func (d *Dispatcher) Data() models.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.data.Clone()
}

// Settings returns a copy of the current settings. Used as the settings persister's snapshot.
func (d *Dispatcher) Settings() models.Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings.Clone()
}

// SetExecutor replaces the executor. Wiring needs it because the persisters
// snapshot through the dispatcher that drives them.
func (d *Dispatcher) SetExecutor(executor EffectExecutor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.executor = executor
}

// Flush writes both stores immediately. Both writes are attempted even if
// the first fails.
func (d *Dispatcher) Flush(ctx context.Context) error {
	d.mu.Lock()
	executor := d.executor
	d.mu.Unlock()

	var errs []error
	for _, eff := range effects.PlanFlush() {
		if err := executor.Execute(ctx, []effects.Effect{eff}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

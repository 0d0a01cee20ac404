// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/shiftlog/internal/core/effects"
	"github.com/example/shiftlog/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor with real I/O.
type DefaultEffectExecutor struct {
	persisters map[string]secondary.Persister
	renderer   secondary.Renderer
	logger     *zap.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(data, settings secondary.Persister, renderer secondary.Renderer, logger *zap.Logger) *DefaultEffectExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultEffectExecutor{
		persisters: map[string]secondary.Persister{
			effects.StoreData:     data,
			effects.StoreSettings: settings,
		},
		renderer: renderer,
		logger:   logger,
	}
}

// Execute processes a slice of effects, executing each in sequence.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.PersistEffect:
		return e.executePersist(ctx, typed)
	case effects.RenderEffect:
		return e.executeRender(ctx, typed)
	case effects.LogEffect:
		e.executeLog(typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executePersist(ctx context.Context, eff effects.PersistEffect) error {
	p := e.persisters[eff.Store]
	if p == nil {
		return fmt.Errorf("unknown store: %s", eff.Store)
	}
	switch eff.Mode {
	case effects.PersistScheduled:
		p.SchedulePersist()
		return nil
	case effects.PersistImmediate:
		return p.PersistNow(ctx)
	default:
		return fmt.Errorf("unknown persist mode: %s", eff.Mode)
	}
}

// executeRender never fails the dispatch: by the time it runs the state is
// committed, so a render failure is only logged.
func (e *DefaultEffectExecutor) executeRender(ctx context.Context, eff effects.RenderEffect) error {
	if e.renderer == nil {
		return nil
	}
	if err := e.renderer.Render(ctx, secondary.ViewSnapshot{Data: eff.Data, Settings: eff.Settings}); err != nil {
		e.logger.Warn("render failed", zap.Error(err))
	}
	return nil
}

func (e *DefaultEffectExecutor) executeLog(eff effects.LogEffect) {
	fields := make([]zap.Field, 0, len(eff.Fields))
	for k, v := range eff.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	switch eff.Level {
	case "debug":
		e.logger.Debug(eff.Message, fields...)
	case "warn":
		e.logger.Warn(eff.Message, fields...)
	case "error":
		e.logger.Error(eff.Message, fields...)
	default:
		e.logger.Info(eff.Message, fields...)
	}
}

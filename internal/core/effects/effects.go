// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

import "github.com/example/shiftlog/internal/models"

// Store names used by PersistEffect.
const (
	StoreData     = "data"
	StoreSettings = "settings"
)

// Persist modes.
const (
	PersistScheduled = "schedule" // debounced
	PersistImmediate = "now"
)

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// PersistEffect asks for one store to be written.
type PersistEffect struct {
	Store string // StoreData or StoreSettings
	Mode  string // PersistScheduled or PersistImmediate
}

func (e PersistEffect) EffectType() string { return "persist" }

// RenderEffect asks the renderer to redraw every view from the carried snapshot.
type RenderEffect struct {
	Data     models.State
	Settings models.Settings
}

func (e RenderEffect) EffectType() string { return "render" }

// PlanDispatch returns the effects that follow a successful mutation:
// a scheduled persist per requested store, then a render of data and settings.
// The caller passes copies; the effects own them.
func PlanDispatch(persistData, persistSettings bool, data models.State, settings models.Settings) []Effect {
	var effs []Effect
	if persistData {
		effs = append(effs, PersistEffect{Store: StoreData, Mode: PersistScheduled})
	}
	if persistSettings {
		effs = append(effs, PersistEffect{Store: StoreSettings, Mode: PersistScheduled})
	}
	return append(effs, RenderEffect{Data: data, Settings: settings})
}

// PlanFlush returns immediate persists for both stores.
func PlanFlush() []Effect {
	return []Effect{
		PersistEffect{Store: StoreData, Mode: PersistImmediate},
		PersistEffect{Store: StoreSettings, Mode: PersistImmediate},
	}
}

// PlanRecovery returns the effects that follow loading data from a backup:
// a warning and an immediate write back to the primary key.
func PlanRecovery(backupTimestamp int64) []Effect {
	return []Effect{
		LogEffect{
			Level:   "warn",
			Message: "primary data unreadable; recovered from backup",
			Fields:  map[string]any{"backup_timestamp": backupTimestamp},
		},
		PersistEffect{Store: StoreData, Mode: PersistImmediate},
	}
}

package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/shiftlog/internal/core/effects"
	"github.com/example/shiftlog/internal/core/migration"
	"github.com/example/shiftlog/internal/models"
	"github.com/example/shiftlog/internal/ports/secondary"
)

// Store keys.
const (
	DefaultDataKey     = "shift_manager_data_v2"
	DefaultSettingsKey = "shift_manager_settings_v2"
	DefaultBackupsKey  = "shift_manager_backups_v1"
)

// Keys names the persisted documents.
type Keys struct {
	Data     string
	Settings string
	Backups  string
}

// DefaultKeys returns the standard key names.
func DefaultKeys() Keys {
	return Keys{Data: DefaultDataKey, Settings: DefaultSettingsKey, Backups: DefaultBackupsKey}
}

// LoadOutcome reports where the startup state came from.
type LoadOutcome string

const (
	// LoadFresh means the primary data key parsed and migrated.
	LoadFresh LoadOutcome = "fresh"
	// LoadRecovered means the primary key was unusable and a backup was used.
	LoadRecovered LoadOutcome = "recovered"
	// LoadDefaulted means neither the primary key nor any backup was usable.
	LoadDefaulted LoadOutcome = "defaulted"
)

// LoadResult is the state to start from.
type LoadResult struct {
	Data            models.State
	Settings        models.Settings
	Outcome         LoadOutcome
	BackupTimestamp int64 // set when Outcome is LoadRecovered
}

// Effects returns the follow-up work for the outcome: a recovered state is
// written back to the primary key immediately.
func (r LoadResult) Effects() []effects.Effect {
	if r.Outcome != LoadRecovered {
		return nil
	}
	return effects.PlanRecovery(r.BackupTimestamp)
}

// Loader evaluates the startup recovery sequence once.
type Loader struct {
	data     secondary.DocumentStore[models.State]
	settings secondary.DocumentStore[models.Settings]
	backups  secondary.BackupStore
	keys     Keys
	newID    migration.IDFunc
	dictCap  int
	logger   *zap.Logger
}

// NewLoader creates a loader.
func NewLoader(
	data secondary.DocumentStore[models.State],
	settings secondary.DocumentStore[models.Settings],
	backups secondary.BackupStore,
	keys Keys,
	ids secondary.IDGenerator,
	dictCap int,
	logger *zap.Logger,
) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		data:     data,
		settings: settings,
		backups:  backups,
		keys:     keys,
		newID:    ids.NewID,
		dictCap:  dictCap,
		logger:   logger,
	}
}

// Load reads data and settings. Data comes from the primary key when it
// parses and migrates, else from the newest usable backup, else defaults.
// Settings fall back to defaults independently.
func (l *Loader) Load(ctx context.Context) LoadResult {
	result := LoadResult{Settings: l.loadSettings(ctx)}

	if raw, ok := l.data.Read(ctx, l.keys.Data); ok {
		s, err := migration.MigrateState(&raw, l.newID)
		if err == nil {
			result.Data = s
			result.Outcome = LoadFresh
			return result
		}
		l.logger.Warn("primary data failed to migrate", zap.Error(err))
	}

	if entry, ok := l.backups.RestoreLatest(ctx); ok {
		result.Data = entry.Snapshot
		result.Outcome = LoadRecovered
		result.BackupTimestamp = entry.Timestamp
		return result
	}

	result.Data = models.DefaultState()
	result.Outcome = LoadDefaulted
	return result
}

func (l *Loader) loadSettings(ctx context.Context) models.Settings {
	raw, ok := l.settings.Read(ctx, l.keys.Settings)
	if !ok {
		return migration.MigrateSettings(nil, l.dictCap)
	}
	return migration.MigrateSettings(&raw, l.dictCap)
}

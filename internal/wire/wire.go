// Package wire provides dependency injection for the shiftlog application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/shiftlog/internal/adapters/badger"
	cliadapter "github.com/example/shiftlog/internal/adapters/cli"
	"github.com/example/shiftlog/internal/adapters/filesystem"
	"github.com/example/shiftlog/internal/adapters/memory"
	"github.com/example/shiftlog/internal/adapters/persistence"
	"github.com/example/shiftlog/internal/adapters/sqlite"
	"github.com/example/shiftlog/internal/adapters/system"
	"github.com/example/shiftlog/internal/app"
	"github.com/example/shiftlog/internal/config"
	"github.com/example/shiftlog/internal/db"
	"github.com/example/shiftlog/internal/metrics"
	"github.com/example/shiftlog/internal/models"
	"github.com/example/shiftlog/internal/ports/primary"
	"github.com/example/shiftlog/internal/ports/secondary"
	"github.com/example/shiftlog/internal/version"
)

// Options are set by the CLI before the first service is requested.
type Options struct {
	Home    string // overrides config.DefaultHome
	Verbose bool   // debug logging
	Quiet   bool   // no summary line after changes
}

var (
	options Options

	cfg               *config.Config
	logger            *zap.Logger
	store             secondary.KeyValueStore
	persistMetrics    *metrics.Persistence
	dataPersister     *persistence.StorePersister[models.State]
	settingsPersister *persistence.StorePersister[models.Settings]
	shiftLogService   primary.ShiftLogService
	initErr           error
	once              sync.Once
)

// Configure sets the options used by the first initialization.
func Configure(opts Options) {
	options = opts
}

// ShiftLogService returns the singleton ShiftLogService instance.
func ShiftLogService() (primary.ShiftLogService, error) {
	once.Do(initServices)
	return shiftLogService, initErr
}

// Config returns the loaded configuration.
func Config() (*config.Config, error) {
	once.Do(initServices)
	return cfg, initErr
}

// Metrics returns the persistence metrics.
func Metrics() *metrics.Persistence {
	once.Do(initServices)
	return persistMetrics
}

// StoreStats returns per-key statistics when the store is SQLite.
func StoreStats(ctx context.Context) ([]sqlite.Stat, bool, error) {
	once.Do(initServices)
	s, ok := store.(*sqlite.KVStore)
	if !ok {
		return nil, false, nil
	}
	stats, err := s.Stats(ctx)
	return stats, true, err
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	home := options.Home
	if home == "" {
		var err error
		if home, err = config.DefaultHome(); err != nil {
			initErr = err
			return
		}
	}

	cfg, initErr = config.LoadConfig(home)
	if initErr != nil {
		return
	}

	logger, initErr = newLogger(cfg.LogLevel, options.Verbose)
	if initErr != nil {
		return
	}

	store, initErr = openStore(cfg, logger)
	if initErr != nil {
		return
	}

	persistMetrics = metrics.NewPersistence()
	ids := system.UUIDGenerator{}
	clk := system.Clock{}
	keys := app.Keys{Data: cfg.Keys.Data, Settings: cfg.Keys.Settings, Backups: cfg.Keys.Backups}

	dataDocs := persistence.NewCodec[models.State](store, nil, logger)
	settingsDocs := persistence.NewCodec(store, models.DefaultSettings, logger)
	ring := persistence.NewBackupRing(persistence.BackupRingOptions{
		Store:    store,
		Key:      keys.Backups,
		Capacity: cfg.Backups,
		Now:      clk.Now,
		NewID:    ids.NewID,
		Logger:   logger,
	})

	// Load state
	loader := app.NewLoader(dataDocs, settingsDocs, ring, keys, ids, cfg.DictionaryCap, logger)
	result := loader.Load(context.Background())
	persistMetrics.ObserveLoad(string(result.Outcome))

	// Create the dispatcher first; persisters snapshot through it
	dispatcher := app.NewDispatcher(result.Data, result.Settings, nil, logger)

	dataPersister = persistence.NewStorePersister(persistence.StorePersisterOptions[models.State]{
		Name:      "data",
		Key:       keys.Data,
		Codec:     dataDocs,
		Snapshot:  dispatcher.Data,
		Backup:    ring,
		Scheduler: persistence.SystemScheduler{},
		Window:    cfg.DebounceWindow(),
		Logger:    logger,
		Metrics:   persistMetrics,
	})
	settingsPersister = persistence.NewStorePersister(persistence.StorePersisterOptions[models.Settings]{
		Name:      "settings",
		Key:       keys.Settings,
		Codec:     settingsDocs,
		Snapshot:  dispatcher.Settings,
		Scheduler: persistence.SystemScheduler{},
		Window:    cfg.DebounceWindow(),
		Logger:    logger,
		Metrics:   persistMetrics,
	})

	var renderer secondary.Renderer = cliadapter.NewSummaryRenderer(os.Stderr)
	if options.Quiet {
		renderer = cliadapter.NopRenderer{}
	}
	executor := app.NewEffectExecutor(dataPersister, settingsPersister, renderer, logger)
	dispatcher.SetExecutor(executor)

	// Recovered data is written back to the primary key before any command runs
	if err := executor.Execute(context.Background(), result.Effects()); err != nil {
		logger.Warn("failed to write recovered data back", zap.Error(err))
	}

	files, err := filesystem.NewExportStore("")
	if err != nil {
		initErr = err
		return
	}

	shiftLogService = app.NewShiftLogService(app.ShiftLogServiceDeps{
		Dispatcher:        dispatcher,
		DataDocs:          dataDocs,
		SettingsDocs:      settingsDocs,
		DataPersister:     dataPersister,
		SettingsPersister: settingsPersister,
		Backups:           ring,
		Files:             files,
		Clock:             clk,
		IDs:               ids,
		Keys:              keys,
		DictionaryCap:     cfg.DictionaryCap,
		Outcome:           result.Outcome,
		AppVersion:        version.AppVersion,
		Logger:            logger,
	})
}

// newLogger builds a production zap logger on stderr. verbose forces debug.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// openStore opens the configured key-value backend.
func openStore(c *config.Config, logger *zap.Logger) (secondary.KeyValueStore, error) {
	switch c.Store.Driver {
	case config.DriverBadger:
		kv, err := badger.Open(badger.Config{Path: c.StorePath(), SyncWrites: true, Logger: logger})
		if err != nil {
			return nil, err
		}
		return kv, nil
	case config.DriverMemory:
		return memory.NewKVStore(), nil
	default:
		database, err := db.Open(c.StorePath(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return sqlite.NewKVStore(database), nil
	}
}

// Shutdown flushes pending writes and releases the store. It is safe to call
// when nothing, or only part of the graph, was initialized.
func Shutdown(ctx context.Context) error {
	var errs []error
	if dataPersister != nil {
		if err := dataPersister.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if settingsPersister != nil {
		if err := settingsPersister.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if store != nil {
		if err := store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return errors.Join(errs...)
}

// RecordAdapter returns a new RecordAdapter writing to out.
// Each call creates a new adapter (adapters are stateless translators).
func RecordAdapter(out io.Writer) (*cliadapter.RecordAdapter, error) {
	svc, err := ShiftLogService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewRecordAdapter(svc, out), nil
}

// ArchiveAdapter returns a new ArchiveAdapter writing to out.
func ArchiveAdapter(out io.Writer) (*cliadapter.ArchiveAdapter, error) {
	svc, err := ShiftLogService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewArchiveAdapter(svc, out), nil
}

// SettingsAdapter returns a new SettingsAdapter writing to out.
func SettingsAdapter(out io.Writer) (*cliadapter.SettingsAdapter, error) {
	svc, err := ShiftLogService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewSettingsAdapter(svc, out), nil
}

package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/shiftlog/internal/core/migration"
	"github.com/example/shiftlog/internal/models"
	"github.com/example/shiftlog/internal/ports/secondary"
)

// DefaultBackupCapacity is the number of snapshots kept when none is configured.
const DefaultBackupCapacity = 5

// ringEntry keeps the snapshot undecoded so one bad entry does not hide the rest.
type ringEntry struct {
	Timestamp int64           `json:"timestamp"`
	Snapshot  json.RawMessage `json:"snapshot"`
}

// BackupRing keeps the most recent snapshots of State under one key,
// most recent first.
type BackupRing struct {
	mu       sync.Mutex
	codec    *Codec[[]ringEntry]
	key      string
	capacity int
	now      func() time.Time
	newID    migration.IDFunc
	logger   *zap.Logger
}

// BackupRingOptions configures a BackupRing.
type BackupRingOptions struct {
	Store    secondary.KeyValueStore
	Key      string
	Capacity int
	Now      func() time.Time
	NewID    migration.IDFunc
	Logger   *zap.Logger
}

// NewBackupRing creates a ring over opts.Store.
func NewBackupRing(opts BackupRingOptions) *BackupRing {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultBackupCapacity
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &BackupRing{
		codec:    NewCodec[[]ringEntry](opts.Store, nil, opts.Logger),
		key:      opts.Key,
		capacity: opts.Capacity,
		now:      opts.Now,
		newID:    opts.NewID,
		logger:   opts.Logger,
	}
}

// Record prepends a copy of s and drops entries beyond capacity.
func (r *BackupRing) Record(ctx context.Context, s models.State) error {
	snapshot, err := json.Marshal(s.Clone())
	if err != nil {
		return fmt.Errorf("failed to encode backup snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, _ := r.codec.Read(ctx, r.key)
	entries := make([]ringEntry, 0, r.capacity)
	entries = append(entries, ringEntry{Timestamp: r.now().UnixMilli(), Snapshot: snapshot})
	for _, e := range existing {
		if len(entries) == r.capacity {
			break
		}
		entries = append(entries, e)
	}
	return r.codec.Write(ctx, r.key, entries)
}

// candidates returns the raw entries, most recent first. An unreadable ring
// yields none.
func (r *BackupRing) candidates(ctx context.Context) []ringEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, ok := r.codec.Read(ctx, r.key)
	if !ok {
		return nil
	}
	return entries
}

// List returns decodable entries, most recent first. Entries that fail to
// decode or migrate are skipped.
func (r *BackupRing) List(ctx context.Context) []models.BackupEntry {
	var out []models.BackupEntry
	for _, c := range r.candidates(ctx) {
		s, ok := r.decode(c)
		if !ok {
			continue
		}
		out = append(out, models.BackupEntry{Timestamp: c.Timestamp, Snapshot: s})
	}
	return out
}

// RestoreLatest returns the newest entry that decodes and migrates.
func (r *BackupRing) RestoreLatest(ctx context.Context) (*models.BackupEntry, bool) {
	for _, c := range r.candidates(ctx) {
		if s, ok := r.decode(c); ok {
			return &models.BackupEntry{Timestamp: c.Timestamp, Snapshot: s}, true
		}
	}
	return nil, false
}

func (r *BackupRing) decode(c ringEntry) (models.State, bool) {
	var raw *models.State
	if err := json.Unmarshal(c.Snapshot, &raw); err != nil {
		r.logger.Debug("skipping unreadable backup", zap.Int64("timestamp", c.Timestamp), zap.Error(err))
		return models.State{}, false
	}
	if raw == nil {
		return models.State{}, false
	}
	s, err := migration.MigrateState(raw, r.newID)
	if err != nil {
		r.logger.Debug("skipping unsupported backup", zap.Int64("timestamp", c.Timestamp), zap.Error(err))
		return models.State{}, false
	}
	return s, true
}

package primary

import (
	"context"
	"errors"

	"github.com/example/shiftlog/internal/models"
)

// Sentinel errors returned by ShiftLogService.
var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyShift   = errors.New("shift is empty")
	ErrNoBackups    = errors.New("no usable backup")
	ErrInvalidInput = errors.New("invalid input")

	ErrConfirmationRequired = errors.New("confirmation required")
)

// ShiftLogService defines the primary port for every shift-log operation.
// All mutations go through a single dispatch path, which schedules
// persistence and re-renders.
type ShiftLogService interface {
	// CreateRequest validates and prepends a new request.
	CreateRequest(ctx context.Context, in RequestInput) (*models.Request, error)

	// UpdateRequest replaces the editable fields of a request.
	UpdateRequest(ctx context.Context, id string, in RequestInput) (*models.Request, error)

	// DeleteRequest removes a request from the active shift.
	DeleteRequest(ctx context.Context, id string) error

	// StampRequest sets t1 or t2 to at (or now) if it is still empty.
	StampRequest(ctx context.Context, req StampRequest) (*models.Request, error)

	// FinishRequest sets t3 if empty and the result if empty.
	FinishRequest(ctx context.Context, id, result string) (*models.Request, error)

	// ListRequests returns active requests matching query, most recent first.
	ListRequests(ctx context.Context, query string) ([]models.Request, error)

	// CreateDelivered validates and prepends a delivered entry.
	CreateDelivered(ctx context.Context, in DeliveredInput) (*models.DeliveredEntry, error)

	// UpdateDelivered replaces the editable fields of a delivered entry.
	UpdateDelivered(ctx context.Context, id string, in DeliveredInput) (*models.DeliveredEntry, error)

	// DeleteDelivered removes a delivered entry.
	DeleteDelivered(ctx context.Context, id string) error

	// ListDelivered returns delivered entries matching query.
	ListDelivered(ctx context.Context, query string) ([]models.DeliveredEntry, error)

	// CreateAssist validates and prepends an assist entry.
	CreateAssist(ctx context.Context, in AssistInput) (*models.AssistEntry, error)

	// UpdateAssist replaces the editable fields of an assist entry.
	UpdateAssist(ctx context.Context, id string, in AssistInput) (*models.AssistEntry, error)

	// DeleteAssist removes an assist entry.
	DeleteAssist(ctx context.Context, id string) error

	// ListAssists returns assists matching query and the shift total in minutes.
	ListAssists(ctx context.Context, query string) (*AssistList, error)

	// CloseShift archives the active shift.
	CloseShift(ctx context.Context) (*models.ArchivedShift, error)

	// ShiftStats summarizes the active shift.
	ShiftStats(ctx context.Context) (*ShiftStats, error)

	// ExportCurrentShift writes the active shift to dest.
	ExportCurrentShift(ctx context.Context, dest string) (string, error)

	// ListArchive returns archived shifts, most recent first.
	ListArchive(ctx context.Context) ([]models.ArchivedShift, error)

	// GetArchivedShift returns one archived shift.
	GetArchivedShift(ctx context.Context, id string) (*models.ArchivedShift, error)

	// ExportArchivedShift writes one archived shift to dest.
	ExportArchivedShift(ctx context.Context, id, dest string) (string, error)

	// DeleteArchivedShift removes an archived shift.
	DeleteArchivedShift(ctx context.Context, id string) error

	// GetDictionary returns one autocomplete list.
	GetDictionary(ctx context.Context, kind string) ([]string, error)

	// SetDictionary replaces one autocomplete list and returns the stored values.
	SetDictionary(ctx context.Context, kind string, values []string) ([]string, error)

	// GetSettings returns a copy of the settings.
	GetSettings(ctx context.Context) (*models.Settings, error)

	// SetCompact toggles compact rendering.
	SetCompact(ctx context.Context, compact bool) error

	// SetStartScreen selects the screen shown first.
	SetStartScreen(ctx context.Context, screen string) error

	// SetFieldVisibility shows or hides one column of a list.
	SetFieldVisibility(ctx context.Context, req FieldVisibilityRequest) error

	// ExportAll persists now and writes the wrapped export document to dest.
	ExportAll(ctx context.Context, dest string) (*ExportResult, error)

	// Import replaces data (and settings, when present) from a file.
	Import(ctx context.Context, src string) (*ImportResult, error)

	// ListBackups returns the backup ring, most recent first.
	ListBackups(ctx context.Context) ([]BackupInfo, error)

	// BackupNow persists immediately, which also records a backup.
	BackupNow(ctx context.Context) error

	// RestoreLatestBackup replaces live data with the newest usable backup.
	RestoreLatestBackup(ctx context.Context) (*BackupInfo, error)

	// ClearAll resets data and settings to defaults. Backups are kept.
	ClearAll(ctx context.Context) error

	// LoadOutcome reports how state was obtained at startup.
	LoadOutcome(ctx context.Context) string

	// Flush writes both stores immediately.
	Flush(ctx context.Context) error
}

// RequestInput contains the editable fields of a request.
type RequestInput struct {
	Num    string
	Type   string
	KUSP   string
	Addr   string
	Desc   string
	T1     string
	T2     string
	T3     string
	Result string
}

// StampRequest identifies a quick time stamp on a request.
type StampRequest struct {
	RequestID string
	Stamp     string // "t1" or "t2"
	At        string // optional HH:MM; empty means now
}

// DeliveredInput contains the editable fields of a delivered entry.
type DeliveredInput struct {
	Name   string
	Time   string
	Reason string
}

// AssistInput contains the editable fields of an assist entry.
type AssistInput struct {
	Service string
	Note    string
	Start   string
	End     string
	Confirm bool // required for intervals longer than 12h
}

// AssistList is a filtered assist list with the shift total.
type AssistList struct {
	Assists      []models.AssistEntry
	TotalMinutes int
}

// ShiftStats summarizes the active shift.
type ShiftStats struct {
	Requests        int
	Delivered       int
	Assists         int
	Completed       int
	AvgResponseMins int // -1 when unknown
	MaxResponseMins int // -1 when unknown
	AssistTotalMins int
	ArchivedShifts  int
}

// FieldVisibilityRequest targets one list column.
type FieldVisibilityRequest struct {
	Scope   string // "request", "delivered" or "assist"
	Field   string
	Visible bool
}

// ExportResult describes a written export.
type ExportResult struct {
	Path     string
	Document *models.ExportDocument
}

// ImportResult summarizes an import.
type ImportResult struct {
	Requests        int
	Delivered       int
	Assists         int
	Shifts          int
	SettingsApplied bool
}

// BackupInfo describes one backup ring entry.
type BackupInfo struct {
	Timestamp int64
	Requests  int
	Delivered int
	Assists   int
	Shifts    int
}

// Scope names for FieldVisibilityRequest.
const (
	ScopeRequest   = "request"
	ScopeDelivered = "delivered"
	ScopeAssist    = "assist"
)

// Stamp names for StampRequest.
const (
	StampT1 = "t1"
	StampT2 = "t2"
)

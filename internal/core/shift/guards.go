// Package shift contains the pure business logic for the active shift:
// close-shift planning, statistics, and list filtering.
package shift

import (
	"github.com/example/shiftlog/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// CloseShiftContext provides context for close-shift guards.
type CloseShiftContext struct {
	RequestCount   int
	DeliveredCount int
	AssistCount    int
}

// CanCloseShift evaluates whether the active shift can be archived.
// Rules:
// - At least one record of any kind exists
func CanCloseShift(ctx CloseShiftContext) GuardResult {
	if ctx.RequestCount == 0 && ctx.DeliveredCount == 0 && ctx.AssistCount == 0 {
		return GuardResult{Allowed: false, Reason: "shift is empty"}
	}
	return GuardResult{Allowed: true}
}

// CloseShift moves the active collections into a new archive entry at the
// front of the archive and resets them to empty. The caller supplies id and
// closedAt so the function stays deterministic.
func CloseShift(s *models.State, id string, closedAt int64) models.ArchivedShift {
	archived := models.ArchivedShift{
		ID:        id,
		ClosedAt:  closedAt,
		Requests:  nonNilRequests(s.Requests),
		Delivered: nonNilDelivered(s.Delivered),
		Assists:   nonNilAssists(s.Assists),
	}

	s.Shifts = append([]models.ArchivedShift{archived}, s.Shifts...)
	s.Requests = []models.Request{}
	s.Delivered = []models.DeliveredEntry{}
	s.Assists = []models.AssistEntry{}

	return archived
}

func nonNilRequests(in []models.Request) []models.Request {
	if in == nil {
		return []models.Request{}
	}
	return in
}

func nonNilDelivered(in []models.DeliveredEntry) []models.DeliveredEntry {
	if in == nil {
		return []models.DeliveredEntry{}
	}
	return in
}

func nonNilAssists(in []models.AssistEntry) []models.AssistEntry {
	if in == nil {
		return []models.AssistEntry{}
	}
	return in
}

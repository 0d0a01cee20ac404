// Package migration upgrades persisted data and settings to the current shape.
// Both migrations are pure and idempotent: running one on its own output
// returns an equal value.
package migration

import (
	"errors"
	"fmt"

	"github.com/example/shiftlog/internal/core/clock"
	"github.com/example/shiftlog/internal/core/dictionary"
	"github.com/example/shiftlog/internal/models"
)

// ErrUnsupportedVersion is returned for data written by a newer release.
var ErrUnsupportedVersion = errors.New("unsupported schema version")

// IDFunc generates a fresh unique record identifier.
type IDFunc func() string

// MigrateState upgrades raw to the current schema. A nil raw yields the
// default state. raw is not modified.
func MigrateState(raw *models.State, newID IDFunc) (models.State, error) {
	if raw == nil {
		return models.DefaultState(), nil
	}
	if raw.Version > models.CurrentSchemaVersion {
		return models.State{}, fmt.Errorf("%w: %d (current %d)", ErrUnsupportedVersion, raw.Version, models.CurrentSchemaVersion)
	}

	s := raw.Clone()
	s.Version = models.CurrentSchemaVersion
	s.Requests = migrateRequests(s.Requests, newID)
	s.Delivered = migrateDelivered(s.Delivered, newID)
	s.Assists = migrateAssists(s.Assists, newID)

	if s.Shifts == nil {
		s.Shifts = []models.ArchivedShift{}
	}
	for i := range s.Shifts {
		sh := &s.Shifts[i]
		if sh.ID == "" {
			sh.ID = newID()
		}
		sh.Requests = migrateRequests(sh.Requests, newID)
		sh.Delivered = migrateDelivered(sh.Delivered, newID)
		sh.Assists = migrateAssists(sh.Assists, newID)
	}

	return s, nil
}

func migrateRequests(in []models.Request, newID IDFunc) []models.Request {
	if in == nil {
		return []models.Request{}
	}
	for i := range in {
		r := &in[i]
		if r.ID == "" {
			r.ID = newID()
		}
		r.T1 = normalizeClock(r.T1)
		r.T2 = normalizeClock(r.T2)
		r.T3 = normalizeClock(r.T3)
	}
	return in
}

func migrateDelivered(in []models.DeliveredEntry, newID IDFunc) []models.DeliveredEntry {
	if in == nil {
		return []models.DeliveredEntry{}
	}
	for i := range in {
		d := &in[i]
		if d.ID == "" {
			d.ID = newID()
		}
		d.Time = normalizeClock(d.Time)
	}
	return in
}

func migrateAssists(in []models.AssistEntry, newID IDFunc) []models.AssistEntry {
	if in == nil {
		return []models.AssistEntry{}
	}
	for i := range in {
		a := &in[i]
		if a.ID == "" {
			a.ID = newID()
		}
		if mins, ok := clock.AssistDuration(a.Start, a.End); ok {
			a.Minutes = mins
		}
	}
	return in
}

func normalizeClock(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}

// MigrateSettings fills missing settings with defaults, normalizes the
// dictionaries, and folds legacy templates into empty dictionary lists.
func MigrateSettings(raw *models.Settings, limit int) models.Settings {
	if raw == nil {
		return models.DefaultSettings()
	}
	s := raw.Clone()

	switch s.UI.StartScreen {
	case models.ScreenShift, models.ScreenDelivered, models.ScreenAssists, models.ScreenSettings:
	default:
		s.UI.StartScreen = models.ScreenShift
	}

	s.Templates.Result = dictionary.Normalize(s.Templates.Result, dictionary.TemplateCap)
	s.Templates.Reason = dictionary.Normalize(s.Templates.Reason, dictionary.TemplateCap)

	s.Dict.Types = dictionary.Normalize(s.Dict.Types, limit)
	s.Dict.Results = dictionary.Normalize(s.Dict.Results, limit)
	s.Dict.Reasons = dictionary.Normalize(s.Dict.Reasons, limit)
	s.Dict.Services = dictionary.Normalize(s.Dict.Services, limit)

	if len(s.Dict.Results) == 0 {
		s.Dict.Results = dictionary.Normalize(s.Templates.Result, limit)
	}
	if len(s.Dict.Reasons) == 0 {
		s.Dict.Reasons = dictionary.Normalize(s.Templates.Reason, limit)
	}

	return s
}

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/shiftlog/internal/core/clock"
	"github.com/example/shiftlog/internal/core/dictionary"
	"github.com/example/shiftlog/internal/core/migration"
	"github.com/example/shiftlog/internal/core/record"
	"github.com/example/shiftlog/internal/core/shift"
	"github.com/example/shiftlog/internal/models"
	"github.com/example/shiftlog/internal/ports/primary"
	"github.com/example/shiftlog/internal/ports/secondary"
)

// ShiftLogServiceDeps are the collaborators of ShiftLogServiceImpl.
type ShiftLogServiceDeps struct {
	Dispatcher        *Dispatcher
	DataDocs          secondary.DocumentStore[models.State]
	SettingsDocs      secondary.DocumentStore[models.Settings]
	DataPersister     secondary.Persister
	SettingsPersister secondary.Persister
	Backups           secondary.BackupStore
	Files             secondary.FileStore
	Clock             secondary.Clock
	IDs               secondary.IDGenerator
	Keys              Keys
	DictionaryCap     int
	Outcome           LoadOutcome
	AppVersion        string
	Logger            *zap.Logger
}

// ShiftLogServiceImpl implements the ShiftLogService interface.
type ShiftLogServiceImpl struct {
	dispatcher        *Dispatcher
	dataDocs          secondary.DocumentStore[models.State]
	settingsDocs      secondary.DocumentStore[models.Settings]
	dataPersister     secondary.Persister
	settingsPersister secondary.Persister
	backups           secondary.BackupStore
	files             secondary.FileStore
	clock             secondary.Clock
	ids               secondary.IDGenerator
	keys              Keys
	dictCap           int
	outcome           LoadOutcome
	appVersion        string
	logger            *zap.Logger
}

// NewShiftLogService creates a new ShiftLogService with injected dependencies.
func NewShiftLogService(deps ShiftLogServiceDeps) *ShiftLogServiceImpl {
	if deps.DictionaryCap <= 0 {
		deps.DictionaryCap = dictionary.DefaultCap
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &ShiftLogServiceImpl{
		dispatcher:        deps.Dispatcher,
		dataDocs:          deps.DataDocs,
		settingsDocs:      deps.SettingsDocs,
		dataPersister:     deps.DataPersister,
		settingsPersister: deps.SettingsPersister,
		backups:           deps.Backups,
		files:             deps.Files,
		clock:             deps.Clock,
		ids:               deps.IDs,
		keys:              deps.Keys,
		dictCap:           deps.DictionaryCap,
		outcome:           deps.Outcome,
		appVersion:        deps.AppVersion,
		logger:            deps.Logger,
	}
}

var _ primary.ShiftLogService = (*ShiftLogServiceImpl)(nil)

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", primary.ErrInvalidInput, reason)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, primary.ErrNotFound)
}

func (s *ShiftLogServiceImpl) nowMillis() int64 {
	return s.clock.Now().UnixMilli()
}

func trimRequest(in primary.RequestInput) primary.RequestInput {
	return primary.RequestInput{
		Num:    strings.TrimSpace(in.Num),
		Type:   strings.TrimSpace(in.Type),
		KUSP:   strings.TrimSpace(in.KUSP),
		Addr:   strings.TrimSpace(in.Addr),
		Desc:   strings.TrimSpace(in.Desc),
		T1:     strings.TrimSpace(in.T1),
		T2:     strings.TrimSpace(in.T2),
		T3:     strings.TrimSpace(in.T3),
		Result: strings.TrimSpace(in.Result),
	}
}

func checkRequest(in primary.RequestInput) error {
	res := record.CanSaveRequest(record.RequestContext{
		Num:  in.Num,
		Addr: in.Addr,
		T1:   in.T1,
		T2:   in.T2,
		T3:   in.T3,
	})
	if !res.Allowed {
		return invalid(res.Reason)
	}
	return nil
}

func applyRequest(r *models.Request, in primary.RequestInput) {
	r.Num = in.Num
	r.Type = in.Type
	r.KUSP = in.KUSP
	r.Addr = in.Addr
	r.Desc = in.Desc
	r.T1 = models.StringPtr(in.T1)
	r.T2 = models.StringPtr(in.T2)
	r.T3 = models.StringPtr(in.T3)
	r.Result = in.Result
}

func (s *ShiftLogServiceImpl) rememberRequest(settings *models.Settings, r models.Request) {
	dictionary.Remember(settings, models.DictTypes, r.Type, s.dictCap)
	dictionary.Remember(settings, models.DictResults, r.Result, s.dictCap)
}

func indexRequest(list []models.Request, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// CreateRequest validates and prepends a new request.
func (s *ShiftLogServiceImpl) CreateRequest(ctx context.Context, in primary.RequestInput) (*models.Request, error) {
	in = trimRequest(in)
	if err := checkRequest(in); err != nil {
		return nil, err
	}

	now := s.nowMillis()
	req := models.Request{ID: s.ids.NewID(), CreatedAt: now, UpdatedAt: now}
	applyRequest(&req, in)

	err := s.dispatcher.Dispatch(ctx, func(data *models.State, settings *models.Settings) error {
		data.Requests = append([]models.Request{req.Clone()}, data.Requests...)
		s.rememberRequest(settings, req)
		return nil
	}, DispatchOptions{PersistData: true, PersistSettings: in.Type != "" || in.Result != ""})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateRequest replaces the editable fields of a request.
func (s *ShiftLogServiceImpl) UpdateRequest(ctx context.Context, id string, in primary.RequestInput) (*models.Request, error) {
	in = trimRequest(in)
	if err := checkRequest(in); err != nil {
		return nil, err
	}

	now := s.nowMillis()
	var out models.Request
	err := s.dispatcher.Dispatch(ctx, func(data *models.State, settings *models.Settings) error {
		i := indexRequest(data.Requests, id)
		if i < 0 {
			return notFound("request", id)
		}
		r := &data.Requests[i]
		applyRequest(r, in)
		r.UpdatedAt = now
		s.rememberRequest(settings, *r)
		out = r.Clone()
		return nil
	}, DispatchOptions{PersistData: true, PersistSettings: in.Type != "" || in.Result != ""})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRequest removes a request from the active shift.
func (s *ShiftLogServiceImpl) DeleteRequest(ctx context.Context, id string) error {
	return s.dispatcher.Dispatch(ctx, func(data *models.State, _ *models.Settings) error {
		i := indexRequest(data.Requests, id)
		if i < 0 {
			return notFound("request", id)
		}
		data.Requests = append(data.Requests[:i], data.Requests[i+1:]...)
		return nil
	}, DispatchOptions{PersistData: true})
}

// StampRequest sets t1 or t2 if it is still empty.
func (s *ShiftLogServiceImpl) StampRequest(ctx context.Context, req primary.StampRequest) (*models.Request, error) {
	if req.Stamp != primary.StampT1 && req.Stamp != primary.StampT2 {
		return nil, invalid(fmt.Sprintf("unknown stamp %q", req.Stamp))
	}
	at := strings.TrimSpace(req.At)
	if at == "" {
		at = clock.FromTime(s.clock.Now())
	} else if !clock.Valid(at) {
		return nil, invalid("time must be HH:MM")
	}

	now := s.nowMillis()
	var out models.Request
	err := s.dispatcher.Dispatch(ctx, func(data *models.State, _ *models.Settings) error {
		i := indexRequest(data.Requests, req.RequestID)
		if i < 0 {
			return notFound("request", req.RequestID)
		}
		r := &data.Requests[i]
		target := &r.T1
		if req.Stamp == primary.StampT2 {
			target = &r.T2
		}
		if *target == nil {
			*target = models.StringPtr(at)
		}
		r.UpdatedAt = now
		out = r.Clone()
		return nil
	}, DispatchOptions{PersistData: true})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FinishRequest sets t3 if empty and result if empty.
func (s *ShiftLogServiceImpl) FinishRequest(ctx context.Context, id, result string) (*models.Request, error) {
	result = strings.TrimSpace(result)
	at := clock.FromTime(s.clock.Now())
	now := s.nowMillis()

	var out models.Request
	err := s.dispatcher.Dispatch(ctx, func(data *models.State, settings *models.Settings) error {
		i := indexRequest(data.Requests, id)
		if i < 0 {
			return notFound("request", id)
		}
		r := &data.Requests[i]
		if r.T3 == nil {
			r.T3 = models.StringPtr(at)
		}
		if r.Result == "" && result != "" {
			r.Result = result
			dictionary.Remember(settings, models.DictResults, result, s.dictCap)
		}
		r.UpdatedAt = now
		out = r.Clone()
		return nil
	}, DispatchOptions{PersistData: true, PersistSettings: result != ""})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRequests returns active requests matching query.
func (s *ShiftLogServiceImpl) ListRequests(ctx context.Context, query string) ([]models.Request, error) {
	data := s.dispatcher.Data()
	out := make([]models.Request, 0, len(data.Requests))
	for _, r := range data.Requests {
		if shift.MatchRequest(r, query) {
			out = append(out, r)
		}
	}
	return out, nil
}

func trimDelivered(in primary.DeliveredInput) primary.DeliveredInput {
	return primary.DeliveredInput{
		Name:   strings.TrimSpace(in.Name),
		Time:   strings.TrimSpace(in.Time),
		Reason: strings.TrimSpace(in.Reason),
	}
}

func checkDelivered(in primary.DeliveredInput) error {
	res := record.CanSaveDelivered(record.DeliveredContext{Name: in.Name, Time: in.Time})
	if !res.Allowed {
		return invalid(res.Reason)
	}
	return nil
}

func indexDelivered(list []models.DeliveredEntry, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// CreateDelivered validates and prepends a delivered entry.
func (s *ShiftLogServiceImpl) CreateDelivered(ctx context.Context, in primary.DeliveredInput) (*models.DeliveredEntry, error) {
	in = trimDelivered(in)
	if err := checkDelivered(in); err != nil {
		return nil, err
	}

	now := s.nowMillis()
	entry := models.DeliveredEntry{
		ID:        s.ids.NewID(),
		Name:      in.Name,
		Time:      models.StringPtr(in.Time),
		Reason:    in.Reason,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.dispatcher.Dispatch(ctx, func(data *models.State, settings *models.Settings) error {
		data.Delivered = append([]models.DeliveredEntry{entry.Clone()}, data.Delivered...)
		dictionary.Remember(settings, models.DictReasons, entry.Reason, s.dictCap)
		return nil
	}, DispatchOptions{PersistData: true, PersistSettings: in.Reason != ""})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateDelivered replaces the editable fields of a delivered entry.
func (s *ShiftLogServiceImpl) UpdateDelivered(ctx context.Context, id string, in primary.DeliveredInput) (*models.DeliveredEntry, error) {
	in = trimDelivered(in)
	if err := checkDelivered(in); err != nil {
		return nil, err
	}

	now := s.nowMillis()
	var out models.DeliveredEntry
	err := s.dispatcher.Dispatch(ctx, func(data *models.State, settings *models.Settings) error {
		i := indexDelivered(data.Delivered, id)
		if i < 0 {
			return notFound("delivered entry", id)
		}
		d := &data.Delivered[i]
		d.Name = in.Name
		d.Time = models.StringPtr(in.Time)
		d.Reason = in.Reason
		d.UpdatedAt = now
		dictionary.Remember(settings, models.DictReasons, in.Reason, s.dictCap)
		out = d.Clone()
		return nil
	}, DispatchOptions{PersistData: true, PersistSettings: in.Reason != ""})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDelivered removes a delivered entry.
func (s *ShiftLogServiceImpl) DeleteDelivered(ctx context.Context, id string) error {
	return s.dispatcher.Dispatch(ctx, func(data *models.State, _ *models.Settings) error {
		i := indexDelivered(data.Delivered, id)
		if i < 0 {
			return notFound("delivered entry", id)
		}
		data.Delivered = append(data.Delivered[:i], data.Delivered[i+1:]...)
		return nil
	}, DispatchOptions{PersistData: true})
}

// ListDelivered returns delivered entries matching query.
func (s *ShiftLogServiceImpl) ListDelivered(ctx context.Context, query string) ([]models.DeliveredEntry, error) {
	data := s.dispatcher.Data()
	out := make([]models.DeliveredEntry, 0, len(data.Delivered))
	for _, d := range data.Delivered {
		if shift.MatchDelivered(d, query) {
			out = append(out, d)
		}
	}
	return out, nil
}

func trimAssist(in primary.AssistInput) primary.AssistInput {
	return primary.AssistInput{
		Service: strings.TrimSpace(in.Service),
		Note:    strings.TrimSpace(in.Note),
		Start:   strings.TrimSpace(in.Start),
		End:     strings.TrimSpace(in.End),
		Confirm: in.Confirm,
	}
}

func checkAssist(in primary.AssistInput) (int, error) {
	res := record.CanSaveAssist(record.AssistContext{
		Service:   in.Service,
		Start:     in.Start,
		End:       in.End,
		Confirmed: in.Confirm,
	})
	if res.NeedsConfirmation {
		return 0, fmt.Errorf("%w: %s", primary.ErrConfirmationRequired, res.Reason)
	}
	if !res.Allowed {
		return 0, invalid(res.Reason)
	}
	mins, _ := clock.AssistDuration(in.Start, in.End)
	return mins, nil
}

func indexAssist(list []models.AssistEntry, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// CreateAssist validates and prepends an assist entry.
func (s *ShiftLogServiceImpl) CreateAssist(ctx context.Context, in primary.AssistInput) (*models.AssistEntry, error) {
	in = trimAssist(in)
	mins, err := checkAssist(in)
	if err != nil {
		return nil, err
	}

	now := s.nowMillis()
	entry := models.AssistEntry{
		ID:        s.ids.NewID(),
		Service:   in.Service,
		Note:      in.Note,
		Start:     in.Start,
		End:       in.End,
		Minutes:   mins,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.dispatcher.Dispatch(ctx, func(data *models.State, settings *models.Settings) error {
		data.Assists = append([]models.AssistEntry{entry}, data.Assists...)
		dictionary.Remember(settings, models.DictServices, entry.Service, s.dictCap)
		return nil
	}, DispatchOptions{PersistData: true, PersistSettings: true})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateAssist replaces the editable fields of an assist entry.
func (s *ShiftLogServiceImpl) UpdateAssist(ctx context.Context, id string, in primary.AssistInput) (*models.AssistEntry, error) {
	in = trimAssist(in)
	mins, err := checkAssist(in)
	if err != nil {
		return nil, err
	}

	now := s.nowMillis()
	var out models.AssistEntry
	err = s.dispatcher.Dispatch(ctx, func(data *models.State, settings *models.Settings) error {
		i := indexAssist(data.Assists, id)
		if i < 0 {
			return notFound("assist", id)
		}
		a := &data.Assists[i]
		a.Service = in.Service
		a.Note = in.Note
		a.Start = in.Start
		a.End = in.End
		a.Minutes = mins
		a.UpdatedAt = now
		dictionary.Remember(settings, models.DictServices, in.Service, s.dictCap)
		out = *a
		return nil
	}, DispatchOptions{PersistData: true, PersistSettings: true})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAssist removes an assist entry.
func (s *ShiftLogServiceImpl) DeleteAssist(ctx context.Context, id string) error {
	return s.dispatcher.Dispatch(ctx, func(data *models.State, _ *models.Settings) error {
		i := indexAssist(data.Assists, id)
		if i < 0 {
			return notFound("assist", id)
		}
		data.Assists = append(data.Assists[:i], data.Assists[i+1:]...)
		return nil
	}, DispatchOptions{PersistData: true})
}

// ListAssists returns assists matching query and the shift total.
func (s *ShiftLogServiceImpl) ListAssists(ctx context.Context, query string) (*primary.AssistList, error) {
	data := s.dispatcher.Data()
	out := make([]models.AssistEntry, 0, len(data.Assists))
	for _, a := range data.Assists {
		if shift.MatchAssist(a, query) {
			out = append(out, a)
		}
	}
	return &primary.AssistList{
		Assists:      out,
		TotalMinutes: shift.TotalAssistMinutes(data.Assists),
	}, nil
}

// CloseShift archives the active shift.
func (s *ShiftLogServiceImpl) CloseShift(ctx context.Context) (*models.ArchivedShift, error) {
	id := s.ids.NewID()
	closedAt := s.nowMillis()

	var out models.ArchivedShift
	err := s.dispatcher.Dispatch(ctx, func(data *models.State, _ *models.Settings) error {
		guardCtx := shift.CloseShiftContext{
			RequestCount:   len(data.Requests),
			DeliveredCount: len(data.Delivered),
			AssistCount:    len(data.Assists),
		}
		if res := shift.CanCloseShift(guardCtx); !res.Allowed {
			return primary.ErrEmptyShift
		}
		out = shift.CloseShift(data, id, closedAt).Clone()
		return nil
	}, DispatchOptions{PersistData: true})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ShiftStats summarizes the active shift.
func (s *ShiftLogServiceImpl) ShiftStats(ctx context.Context) (*primary.ShiftStats, error) {
	data := s.dispatcher.Data()
	st := shift.ComputeStats(&data)
	return &primary.ShiftStats{
		Requests:        st.Requests,
		Delivered:       st.Delivered,
		Assists:         st.Assists,
		Completed:       st.Completed,
		AvgResponseMins: st.AvgResponseMins,
		MaxResponseMins: st.MaxResponseMins,
		AssistTotalMins: st.AssistTotalMins,
		ArchivedShifts:  len(data.Shifts),
	}, nil
}

func (s *ShiftLogServiceImpl) writeJSON(ctx context.Context, dest, defaultName string, v any) (string, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", defaultName, err)
	}
	path, err := s.files.WriteFile(ctx, dest, defaultName, raw)
	if err != nil {
		return "", fmt.Errorf("failed to export: %w", err)
	}
	return path, nil
}

// ExportCurrentShift writes the active shift.
func (s *ShiftLogServiceImpl) ExportCurrentShift(ctx context.Context, dest string) (string, error) {
	data := s.dispatcher.Data()
	doc := models.ShiftExport{
		Requests:  data.Requests,
		Delivered: data.Delivered,
		Assists:   data.Assists,
	}
	name := fmt.Sprintf("shiftmanager-shift-%d.json", s.nowMillis())
	return s.writeJSON(ctx, dest, name, doc)
}

// ListArchive returns archived shifts, most recent first.
func (s *ShiftLogServiceImpl) ListArchive(ctx context.Context) ([]models.ArchivedShift, error) {
	return s.dispatcher.Data().Shifts, nil
}

func indexShift(list []models.ArchivedShift, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// GetArchivedShift returns one archived shift.
func (s *ShiftLogServiceImpl) GetArchivedShift(ctx context.Context, id string) (*models.ArchivedShift, error) {
	data := s.dispatcher.Data()
	i := indexShift(data.Shifts, id)
	if i < 0 {
		return nil, notFound("archived shift", id)
	}
	return &data.Shifts[i], nil
}

// ExportArchivedShift writes one archived shift.
func (s *ShiftLogServiceImpl) ExportArchivedShift(ctx context.Context, id, dest string) (string, error) {
	archived, err := s.GetArchivedShift(ctx, id)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("shiftmanager-archive-%d.json", archived.ClosedAt)
	return s.writeJSON(ctx, dest, name, archived)
}

// DeleteArchivedShift removes an archived shift.
func (s *ShiftLogServiceImpl) DeleteArchivedShift(ctx context.Context, id string) error {
	return s.dispatcher.Dispatch(ctx, func(data *models.State, _ *models.Settings) error {
		i := indexShift(data.Shifts, id)
		if i < 0 {
			return notFound("archived shift", id)
		}
		data.Shifts = append(data.Shifts[:i], data.Shifts[i+1:]...)
		return nil
	}, DispatchOptions{PersistData: true})
}

func knownKind(kind string) bool {
	for _, k := range models.DictionaryKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// GetDictionary returns one autocomplete list.
func (s *ShiftLogServiceImpl) GetDictionary(ctx context.Context, kind string) ([]string, error) {
	if !knownKind(kind) {
		return nil, invalid(fmt.Sprintf("unknown dictionary %q", kind))
	}
	settings := s.dispatcher.Settings()
	return settings.Dict.List(kind), nil
}

// SetDictionary replaces one autocomplete list.
func (s *ShiftLogServiceImpl) SetDictionary(ctx context.Context, kind string, values []string) ([]string, error) {
	if !knownKind(kind) {
		return nil, invalid(fmt.Sprintf("unknown dictionary %q", kind))
	}
	var stored []string
	err := s.dispatcher.Dispatch(ctx, func(_ *models.State, settings *models.Settings) error {
		stored, _ = dictionary.Replace(settings, kind, values, s.dictCap)
		return nil
	}, DispatchOptions{PersistSettings: true})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// GetSettings returns a copy of the settings.
func (s *ShiftLogServiceImpl) GetSettings(ctx context.Context) (*models.Settings, error) {
	settings := s.dispatcher.Settings()
	return &settings, nil
}

// SetCompact toggles compact rendering.
func (s *ShiftLogServiceImpl) SetCompact(ctx context.Context, compact bool) error {
	return s.dispatcher.Dispatch(ctx, func(_ *models.State, settings *models.Settings) error {
		settings.UI.Compact = compact
		return nil
	}, DispatchOptions{PersistSettings: true})
}

// SetStartScreen selects the screen shown first.
func (s *ShiftLogServiceImpl) SetStartScreen(ctx context.Context, screen string) error {
	switch screen {
	case models.ScreenShift, models.ScreenDelivered, models.ScreenAssists, models.ScreenSettings:
	default:
		return invalid(fmt.Sprintf("unknown screen %q", screen))
	}
	return s.dispatcher.Dispatch(ctx, func(_ *models.State, settings *models.Settings) error {
		settings.UI.StartScreen = screen
		return nil
	}, DispatchOptions{PersistSettings: true})
}

// SetFieldVisibility shows or hides one list column.
func (s *ShiftLogServiceImpl) SetFieldVisibility(ctx context.Context, req primary.FieldVisibilityRequest) error {
	scratch := models.DefaultSettings()
	if fieldToggle(&scratch.UI, req.Scope, req.Field) == nil {
		return invalid(fmt.Sprintf("unknown field %s.%s", req.Scope, req.Field))
	}
	return s.dispatcher.Dispatch(ctx, func(_ *models.State, settings *models.Settings) error {
		*fieldToggle(&settings.UI, req.Scope, req.Field) = req.Visible
		return nil
	}, DispatchOptions{PersistSettings: true})
}

// fieldToggle returns the visibility flag for scope.field, or nil.
func fieldToggle(ui *models.UIPreferences, scope, field string) *bool {
	switch scope {
	case primary.ScopeRequest:
		f := &ui.RequestFields
		return map[string]*bool{
			"num": &f.Num, "type": &f.Type, "kusp": &f.KUSP, "addr": &f.Addr, "desc": &f.Desc,
			"t1": &f.T1, "t2": &f.T2, "t3": &f.T3, "result": &f.Result,
		}[field]
	case primary.ScopeDelivered:
		f := &ui.DeliveredFields
		return map[string]*bool{"fio": &f.FIO, "time": &f.Time, "reason": &f.Reason}[field]
	case primary.ScopeAssist:
		f := &ui.AssistFields
		return map[string]*bool{
			"service": &f.Service, "note": &f.Note, "start": &f.Start, "end": &f.End, "delta": &f.Delta,
		}[field]
	}
	return nil
}

// ExportAll persists now and writes the full export document.
func (s *ShiftLogServiceImpl) ExportAll(ctx context.Context, dest string) (*primary.ExportResult, error) {
	if err := s.dispatcher.Flush(ctx); err != nil {
		s.logger.Warn("flush before export failed", zap.Error(err))
	}

	view := s.dispatcher.View()
	now := s.clock.Now()
	doc := &models.ExportDocument{
		Data:       &view.Data,
		Settings:   &view.Settings,
		ExportedAt: now.UTC().Format(time.RFC3339),
		AppVersion: s.appVersion,
	}
	name := fmt.Sprintf("shiftmanager-backup-%d.json", now.UnixMilli())
	path, err := s.writeJSON(ctx, dest, name, doc)
	if err != nil {
		return nil, err
	}
	return &primary.ExportResult{Path: path, Document: doc}, nil
}

// parseImport accepts the wrapped export document or a bare State.
func parseImport(raw []byte) (*models.State, *models.Settings, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, nil, invalid("file is not a JSON object")
	}

	if dataRaw, ok := fields["data"]; ok {
		var data *models.State
		if err := json.Unmarshal(dataRaw, &data); err != nil || data == nil {
			return nil, nil, invalid("data section is malformed")
		}
		var settings *models.Settings
		if settingsRaw, ok := fields["settings"]; ok {
			decoded := models.DefaultSettings()
			if err := json.Unmarshal(settingsRaw, &decoded); err != nil {
				return nil, nil, invalid("settings section is malformed")
			}
			settings = &decoded
		}
		return data, settings, nil
	}

	for _, key := range []string{"v", "requests", "delivered", "assists", "shifts"} {
		if _, ok := fields[key]; ok {
			var data models.State
			if err := json.Unmarshal(raw, &data); err != nil {
				return nil, nil, invalid("state is malformed")
			}
			return &data, nil, nil
		}
	}
	return nil, nil, invalid("unrecognized document")
}

// Import replaces data, and settings when present, from a file.
func (s *ShiftLogServiceImpl) Import(ctx context.Context, src string) (*primary.ImportResult, error) {
	raw, err := s.files.ReadFile(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to import: %w", err)
	}
	rawData, rawSettings, err := parseImport(raw)
	if err != nil {
		return nil, err
	}

	data, err := migration.MigrateState(rawData, s.ids.NewID)
	if err != nil {
		return nil, invalid(err.Error())
	}
	var settings *models.Settings
	if rawSettings != nil {
		migrated := migration.MigrateSettings(rawSettings, s.dictCap)
		settings = &migrated
	}

	err = s.dispatcher.Dispatch(ctx, func(live *models.State, liveSettings *models.Settings) error {
		*live = data.Clone()
		if settings != nil {
			*liveSettings = settings.Clone()
		}
		return nil
	}, DispatchOptions{PersistData: true, PersistSettings: settings != nil})
	if err != nil {
		return nil, err
	}

	return &primary.ImportResult{
		Requests:        len(data.Requests),
		Delivered:       len(data.Delivered),
		Assists:         len(data.Assists),
		Shifts:          len(data.Shifts),
		SettingsApplied: settings != nil,
	}, nil
}

func backupInfo(e models.BackupEntry) primary.BackupInfo {
	return primary.BackupInfo{
		Timestamp: e.Timestamp,
		Requests:  len(e.Snapshot.Requests),
		Delivered: len(e.Snapshot.Delivered),
		Assists:   len(e.Snapshot.Assists),
		Shifts:    len(e.Snapshot.Shifts),
	}
}

// ListBackups returns the backup ring, most recent first.
func (s *ShiftLogServiceImpl) ListBackups(ctx context.Context) ([]primary.BackupInfo, error) {
	entries := s.backups.List(ctx)
	out := make([]primary.BackupInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, backupInfo(e))
	}
	return out, nil
}

// BackupNow persists immediately, which also records a backup.
func (s *ShiftLogServiceImpl) BackupNow(ctx context.Context) error {
	if err := s.dataPersister.PersistNow(ctx); err != nil {
		return fmt.Errorf("failed to back up: %w", err)
	}
	return nil
}

// RestoreLatestBackup replaces live data with the newest usable backup.
func (s *ShiftLogServiceImpl) RestoreLatestBackup(ctx context.Context) (*primary.BackupInfo, error) {
	entry, ok := s.backups.RestoreLatest(ctx)
	if !ok {
		return nil, primary.ErrNoBackups
	}
	err := s.dispatcher.Dispatch(ctx, func(data *models.State, _ *models.Settings) error {
		*data = entry.Snapshot.Clone()
		return nil
	}, DispatchOptions{PersistData: true})
	if err != nil {
		return nil, err
	}
	info := backupInfo(*entry)
	return &info, nil
}

// ClearAll resets data and settings and writes the defaults to their keys, so
// the next start loads the empty state instead of recovering a backup.
// Backups are kept.
func (s *ShiftLogServiceImpl) ClearAll(ctx context.Context) error {
	s.dataPersister.CancelPending()
	s.settingsPersister.CancelPending()

	err := s.dispatcher.Dispatch(ctx, func(data *models.State, settings *models.Settings) error {
		*data = models.DefaultState()
		*settings = models.DefaultSettings()
		return nil
	}, DispatchOptions{})
	if err != nil {
		return err
	}

	if err := s.dataDocs.Write(ctx, s.keys.Data, models.DefaultState()); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	if err := s.settingsDocs.Write(ctx, s.keys.Settings, models.DefaultSettings()); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	return nil
}

// LoadOutcome reports how state was obtained at startup.
func (s *ShiftLogServiceImpl) LoadOutcome(ctx context.Context) string {
	return string(s.outcome)
}

// Flush writes both stores immediately.
func (s *ShiftLogServiceImpl) Flush(ctx context.Context) error {
	return s.dispatcher.Flush(ctx)
}

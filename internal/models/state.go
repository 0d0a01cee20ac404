// Package models holds the persisted shapes of the shift log.
// JSON field names match the on-disk format written by earlier releases.
package models

// CurrentSchemaVersion is the version tag written with every State.
const CurrentSchemaVersion = 3

// State is the full shift-log data set: the active shift plus the archive.
type State struct {
	Version   int              `json:"v"`
	Requests  []Request        `json:"requests"`
	Delivered []DeliveredEntry `json:"delivered"`
	Assists   []AssistEntry    `json:"assists"`
	Shifts    []ArchivedShift  `json:"shifts"`
}

// DefaultState returns an empty state at the current schema version.
func DefaultState() State {
	return State{
		Version:   CurrentSchemaVersion,
		Requests:  []Request{},
		Delivered: []DeliveredEntry{},
		Assists:   []AssistEntry{},
		Shifts:    []ArchivedShift{},
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	return State{
		Version:   s.Version,
		Requests:  cloneRequests(s.Requests),
		Delivered: cloneDelivered(s.Delivered),
		Assists:   cloneAssists(s.Assists),
		Shifts:    cloneShifts(s.Shifts),
	}
}

// ArchivedShift is a closed shift with the records that were active at close time.
type ArchivedShift struct {
	ID        string           `json:"id"`
	ClosedAt  int64            `json:"closedAt"`
	Requests  []Request        `json:"requests"`
	Delivered []DeliveredEntry `json:"delivered"`
	Assists   []AssistEntry    `json:"assists"`
}

// Clone returns a deep copy.
func (a ArchivedShift) Clone() ArchivedShift {
	return ArchivedShift{
		ID:        a.ID,
		ClosedAt:  a.ClosedAt,
		Requests:  cloneRequests(a.Requests),
		Delivered: cloneDelivered(a.Delivered),
		Assists:   cloneAssists(a.Assists),
	}
}

// ShiftExport is the document written by "export current shift".
type ShiftExport struct {
	Requests  []Request        `json:"requests"`
	Delivered []DeliveredEntry `json:"delivered"`
	Assists   []AssistEntry    `json:"assists"`
}

func cloneRequests(in []Request) []Request {
	if in == nil {
		return nil
	}
	out := make([]Request, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

func cloneDelivered(in []DeliveredEntry) []DeliveredEntry {
	if in == nil {
		return nil
	}
	out := make([]DeliveredEntry, len(in))
	for i, d := range in {
		out[i] = d.Clone()
	}
	return out
}

func cloneAssists(in []AssistEntry) []AssistEntry {
	if in == nil {
		return nil
	}
	out := make([]AssistEntry, len(in))
	copy(out, in)
	return out
}

func cloneShifts(in []ArchivedShift) []ArchivedShift {
	if in == nil {
		return nil
	}
	out := make([]ArchivedShift, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

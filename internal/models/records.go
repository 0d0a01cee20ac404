package models

// Request is a service request handled during the shift.
// T1..T3 are wall-clock "HH:MM" stamps: dispatch, arrival, completion.
type Request struct {
	ID        string  `json:"id"`
	Num       string  `json:"num"`
	Type      string  `json:"type"`
	KUSP      string  `json:"kusp"`
	Addr      string  `json:"addr"`
	Desc      string  `json:"desc"`
	T1        *string `json:"t1,omitempty"`
	T2        *string `json:"t2,omitempty"`
	T3        *string `json:"t3,omitempty"`
	Result    string  `json:"result"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

// Clone returns a deep copy.
func (r Request) Clone() Request {
	out := r
	out.T1 = cloneString(r.T1)
	out.T2 = cloneString(r.T2)
	out.T3 = cloneString(r.T3)
	return out
}

// DeliveredEntry records a person delivered during the shift.
type DeliveredEntry struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Time      *string `json:"time,omitempty"`
	Reason    string  `json:"reason"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

// Clone returns a deep copy.
func (d DeliveredEntry) Clone() DeliveredEntry {
	out := d
	out.Time = cloneString(d.Time)
	return out
}

// AssistEntry is an interval during which an external service assisted.
// Minutes is derived from Start and End, wrapping past midnight.
type AssistEntry struct {
	ID        string `json:"id"`
	Service   string `json:"service"`
	Note      string `json:"note"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Minutes   int    `json:"minutes"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// StringPtr returns nil for an empty string, otherwise a pointer to s.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences p, treating nil as empty.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

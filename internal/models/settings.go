package models

// Start screens.
const (
	ScreenShift     = "shift"
	ScreenDelivered = "delivered"
	ScreenAssists   = "assists"
	ScreenSettings  = "settings"
)

// Dictionary kinds.
const (
	DictTypes    = "types"
	DictResults  = "results"
	DictReasons  = "reasons"
	DictServices = "services"
)

// DictionaryKinds lists every dictionary kind in display order.
var DictionaryKinds = []string{DictTypes, DictResults, DictReasons, DictServices}

// Settings holds autocomplete dictionaries and UI preferences.
type Settings struct {
	UI        UIPreferences   `json:"ui"`
	Dict      Dictionary      `json:"dict"`
	Templates LegacyTemplates `json:"templates"`
}

// Dictionary holds previously used free-text values, most recent first.
type Dictionary struct {
	Types    []string `json:"types"`
	Results  []string `json:"results"`
	Reasons  []string `json:"reasons"`
	Services []string `json:"services"`
}

// List returns the values for kind, or nil for an unknown kind.
func (d *Dictionary) List(kind string) []string {
	switch kind {
	case DictTypes:
		return d.Types
	case DictResults:
		return d.Results
	case DictReasons:
		return d.Reasons
	case DictServices:
		return d.Services
	}
	return nil
}

// Set replaces the values for kind. Returns false for an unknown kind.
func (d *Dictionary) Set(kind string, values []string) bool {
	switch kind {
	case DictTypes:
		d.Types = values
	case DictResults:
		d.Results = values
	case DictReasons:
		d.Reasons = values
	case DictServices:
		d.Services = values
	default:
		return false
	}
	return true
}

// LegacyTemplates are the pre-dictionary suggestion lists. Still written so
// older releases reading the same store keep their suggestions.
type LegacyTemplates struct {
	Result []string `json:"result"`
	Reason []string `json:"reason"`
}

// UIPreferences are consumed by renderers only.
type UIPreferences struct {
	StartScreen     string          `json:"startScreen"`
	Compact         bool            `json:"compact"`
	RequestFields   RequestFields   `json:"requestFields"`
	DeliveredFields DeliveredFields `json:"deliveredFields"`
	AssistFields    AssistFields    `json:"assistFields"`
}

// RequestFields toggles request columns.
type RequestFields struct {
	Num    bool `json:"num"`
	Type   bool `json:"type"`
	KUSP   bool `json:"kusp"`
	Addr   bool `json:"addr"`
	Desc   bool `json:"desc"`
	T1     bool `json:"t1"`
	T2     bool `json:"t2"`
	T3     bool `json:"t3"`
	Result bool `json:"result"`
}

// DeliveredFields toggles delivered columns.
type DeliveredFields struct {
	FIO    bool `json:"fio"`
	Time   bool `json:"time"`
	Reason bool `json:"reason"`
}

// AssistFields toggles assist columns.
type AssistFields struct {
	Service bool `json:"service"`
	Note    bool `json:"note"`
	Start   bool `json:"start"`
	End     bool `json:"end"`
	Delta   bool `json:"delta"`
}

// DefaultSettings returns settings with every field visible and empty dictionaries.
func DefaultSettings() Settings {
	return Settings{
		UI: UIPreferences{
			StartScreen:     ScreenShift,
			RequestFields:   RequestFields{Num: true, Type: true, KUSP: true, Addr: true, Desc: true, T1: true, T2: true, T3: true, Result: true},
			DeliveredFields: DeliveredFields{FIO: true, Time: true, Reason: true},
			AssistFields:    AssistFields{Service: true, Note: true, Start: true, End: true, Delta: true},
		},
		Dict: Dictionary{
			Types:    []string{},
			Results:  []string{},
			Reasons:  []string{},
			Services: []string{},
		},
		Templates: LegacyTemplates{Result: []string{}, Reason: []string{}},
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	out.Dict = Dictionary{
		Types:    cloneStrings(s.Dict.Types),
		Results:  cloneStrings(s.Dict.Results),
		Reasons:  cloneStrings(s.Dict.Reasons),
		Services: cloneStrings(s.Dict.Services),
	}
	out.Templates = LegacyTemplates{
		Result: cloneStrings(s.Templates.Result),
		Reason: cloneStrings(s.Templates.Reason),
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

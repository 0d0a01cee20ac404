// Package dictionary maintains the autocomplete lists: most recent first,
// trimmed, deduplicated case-sensitively, and capped.
package dictionary

import (
	"strings"

	"github.com/example/shiftlog/internal/models"
)

// DefaultCap bounds every dictionary list unless configured otherwise.
const DefaultCap = 200

// TemplateCap bounds the legacy template lists.
const TemplateCap = 12

// Normalize trims values, drops blanks and later duplicates, and keeps at most
// limit entries. A limit <= 0 keeps everything. The result is never nil.
func Normalize(values []string, limit int) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Push moves value to the front of list. Blank values leave list unchanged
// apart from normalization.
func Push(list []string, value string, limit int) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return Normalize(list, limit)
	}
	merged := make([]string, 0, len(list)+1)
	merged = append(merged, value)
	merged = append(merged, list...)
	return Normalize(merged, limit)
}

// ParseLines splits editor input, one value per line.
func ParseLines(text string, limit int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return Normalize(strings.Split(text, "\n"), limit)
}

// Suggest returns the entries of list that contain prefix, case-insensitively,
// keeping list order. An empty prefix returns the first limit entries.
func Suggest(list []string, prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []string
	for _, v := range list {
		if prefix != "" && !strings.Contains(strings.ToLower(v), prefix) {
			continue
		}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Remember pushes value to the front of the kind list in s. Results and
// reasons are mirrored into the legacy templates.
func Remember(s *models.Settings, kind, value string, limit int) {
	if strings.TrimSpace(value) == "" {
		return
	}
	s.Dict.Set(kind, Push(s.Dict.List(kind), value, limit))
	switch kind {
	case models.DictResults:
		s.Templates.Result = Push(s.Templates.Result, value, TemplateCap)
	case models.DictReasons:
		s.Templates.Reason = Push(s.Templates.Reason, value, TemplateCap)
	}
}

// Replace normalizes values and stores them as the kind list in s. Results
// and reasons also replace the legacy templates, so an emptied list is not
// refilled from them on the next load. Returns false for an unknown kind.
func Replace(s *models.Settings, kind string, values []string, limit int) ([]string, bool) {
	list := Normalize(values, limit)
	if !s.Dict.Set(kind, list) {
		return nil, false
	}
	switch kind {
	case models.DictResults:
		s.Templates.Result = Normalize(list, TemplateCap)
	case models.DictReasons:
		s.Templates.Reason = Normalize(list, TemplateCap)
	}
	return list, true
}

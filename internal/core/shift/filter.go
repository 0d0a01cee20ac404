package shift

import (
	"strings"

	"github.com/example/shiftlog/internal/models"
)

// MatchRequest reports whether query occurs in the request's searchable text,
// case-insensitively. An empty query matches everything.
func MatchRequest(r models.Request, query string) bool {
	return contains(query, r.Num, r.Type, r.KUSP, r.Addr, r.Desc, r.Result)
}

// MatchDelivered reports whether query occurs in the entry's searchable text.
func MatchDelivered(d models.DeliveredEntry, query string) bool {
	return contains(query, d.Name, models.StringValue(d.Time), d.Reason)
}

// MatchAssist reports whether query occurs in the entry's searchable text.
func MatchAssist(a models.AssistEntry, query string) bool {
	return contains(query, a.Service, a.Note, a.Start, a.End)
}

func contains(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(fields, " ")), q)
}

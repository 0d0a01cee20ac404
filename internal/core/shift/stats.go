package shift

import (
	"math"

	"github.com/example/shiftlog/internal/core/clock"
	"github.com/example/shiftlog/internal/models"
)

// Stats summarizes the active shift.
type Stats struct {
	Requests        int
	Delivered       int
	Assists         int
	Completed       int
	AvgResponseMins int // -1 when no request has both t1 and t3
	MaxResponseMins int // -1 when no request has both t1 and t3
	AssistTotalMins int
}

// ComputeStats derives shift statistics. Response time is t1 -> t3; pairs
// that go negative (t3 after midnight) are left out.
func ComputeStats(s *models.State) Stats {
	st := Stats{
		Requests:        len(s.Requests),
		Delivered:       len(s.Delivered),
		Assists:         len(s.Assists),
		AvgResponseMins: -1,
		MaxResponseMins: -1,
		AssistTotalMins: TotalAssistMinutes(s.Assists),
	}

	sum, n := 0, 0
	for _, r := range s.Requests {
		if r.T3 != nil {
			st.Completed++
		}
		mins, ok := clock.Elapsed(models.StringValue(r.T1), models.StringValue(r.T3))
		if !ok || mins < 0 {
			continue
		}
		sum += mins
		n++
		if mins > st.MaxResponseMins {
			st.MaxResponseMins = mins
		}
	}
	if n > 0 {
		st.AvgResponseMins = int(math.Round(float64(sum) / float64(n)))
	}
	return st
}

// TotalAssistMinutes sums the derived minutes of every assist.
func TotalAssistMinutes(assists []models.AssistEntry) int {
	total := 0
	for _, a := range assists {
		total += a.Minutes
	}
	return total
}

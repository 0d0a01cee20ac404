// Package clock contains pure wall-clock arithmetic on "HH:MM" strings.
package clock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the length of the wall-clock cycle.
const MinutesPerDay = 24 * 60

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// Parse converts "HH:MM" (24h) into minutes since midnight.
func Parse(s string) (int, bool) {
	m := hhmmPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return h*60 + mm, true
}

// Valid reports whether s is a well-formed "HH:MM".
func Valid(s string) bool {
	_, ok := Parse(s)
	return ok
}

// Format renders a minute count as "HH:MM". Negative counts render as "00:00";
// counts past a day keep growing the hour part.
func Format(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FromTime returns the wall-clock "HH:MM" of t.
func FromTime(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// AssistDuration returns the minutes from start to end. An end earlier than
// start is taken to be on the next day.
func AssistDuration(start, end string) (int, bool) {
	s, ok := Parse(start)
	if !ok {
		return 0, false
	}
	e, ok := Parse(end)
	if !ok {
		return 0, false
	}
	if e >= s {
		return e - s, true
	}
	return (MinutesPerDay - s) + e, true
}

// Elapsed returns end minus start without wrapping. Callers drop negative
// results, which is how request stats treat a t3 recorded after midnight.
func Elapsed(start, end string) (int, bool) {
	s, ok := Parse(start)
	if !ok {
		return 0, false
	}
	e, ok := Parse(end)
	if !ok {
		return 0, false
	}
	return e - s, true
}

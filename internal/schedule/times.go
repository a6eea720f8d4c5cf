package schedule

import (
	"regexp"
	"strings"
	"time"
)

const (
	// DateIDLayout is the canonical calendar-day identifier format.
	DateIDLayout = "2006-01-02"
	// ClockLayout is the canonical 24-hour slot time format.
	ClockLayout = "15:04"
)

var (
	clockPattern  = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	dateIDPattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
)

// NormalizeTime extracts the first H:MM or HH:MM occurrence from a free-form
// string and zero-pads the hour. Stored records carry times as "8:00",
// "08:00:00" or embedded in longer text; all normalize to "08:00". Returns
// "" when no clock pattern is present, which callers treat as an invalid
// record to skip.
func NormalizeTime(value string) string {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return ""
	}
	hh := m[1]
	if len(hh) == 1 {
		hh = "0" + hh
	}
	return hh + ":" + m[2]
}

// ClockOf renders a time in canonical HH:MM form.
func ClockOf(t time.Time) string {
	return t.Format(ClockLayout)
}

// NormalizeDateID extracts the first YYYY-MM-DD substring from a free-form
// string. Returns "" when no date pattern is present.
func NormalizeDateID(value string) string {
	m := dateIDPattern.FindStringSubmatch(value)
	if m == nil {
		return ""
	}
	return m[1]
}

// DateIDOf renders the calendar day of t in the given location. Using the
// practice location rather than UTC avoids the day shifting at the timezone
// boundary.
func DateIDOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateIDLayout)
}

// ParseDateID parses a canonical date identifier at midnight in loc.
func ParseDateID(dateID string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateIDLayout, dateID, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

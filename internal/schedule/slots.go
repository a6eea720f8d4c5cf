package schedule

import "time"

// Working day and slot geometry. The practice runs a fixed weekday
// schedule: slots start every 45 minutes from 08:00, the last start is
// before 17:00, and a slot must begin at least 30 minutes from now to be
// offered.
const (
	DayStartHour = 8
	DayEndHour   = 17
	SlotStep     = 45 * time.Minute
	LeadTime     = 30 * time.Minute

	// HorizonDays is the canonical forward window for availability.
	// The public form and the admin pickers use the same horizon.
	HorizonDays = 21
)

// DaySlots generates the bookable HH:MM start times for a single calendar
// day. Times already booked, times rejected by timeBlocked, and times
// starting before cutoff are excluded. A wholly blocked day yields an empty
// (non-nil) list. Weekend filtering happens at day generation, not here.
func DaySlots(day time.Time, booked map[string]bool, dayBlocked bool, timeBlocked func(clock string) bool, cutoff time.Time) []string {
	times := make([]string, 0, 12)

	start := time.Date(day.Year(), day.Month(), day.Day(), DayStartHour, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), DayEndHour, 0, 0, 0, day.Location())

	for at := start; at.Before(end); at = at.Add(SlotStep) {
		if at.Before(cutoff) {
			continue
		}
		clock := ClockOf(at)
		if booked[clock] {
			continue
		}
		if dayBlocked || (timeBlocked != nil && timeBlocked(clock)) {
			continue
		}
		times = append(times, clock)
	}
	return times
}

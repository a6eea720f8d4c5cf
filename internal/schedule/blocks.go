package schedule

import "strings"

// Block scopes. day/range/week/weekend blocks remove the whole matched day;
// slot blocks remove only times inside the window.
const (
	ScopeDay     = "day"
	ScopeSlot    = "slot"
	ScopeRange   = "range"
	ScopeWeek    = "week"
	ScopeWeekend = "weekend"
)

// windowSeparator is the en-dash used between window endpoints ("08:00–09:30").
const windowSeparator = "–"

// BlockRule is a practitioner-defined unavailability rule as read from the
// store. DateExpr is a single date, a "start to end" range, or an "&"-joined
// set of dates. Window only applies to slot-scope rules.
type BlockRule struct {
	DateExpr string
	Window   string
	Scope    string
}

// AppliesTo reports whether the rule's date expression covers dateID.
// Range expressions match inclusively at both ends; set expressions match
// exact membership; plain expressions match exact equality after
// normalization.
func (b BlockRule) AppliesTo(dateID string) bool {
	expr := strings.TrimSpace(b.DateExpr)
	if expr == "" {
		return false
	}
	if strings.Contains(expr, "to") {
		parts := strings.SplitN(expr, "to", 2)
		startID := NormalizeDateID(strings.TrimSpace(parts[0]))
		endID := NormalizeDateID(strings.TrimSpace(parts[1]))
		if startID == "" || endID == "" {
			return false
		}
		return dateID >= startID && dateID <= endID
	}
	if strings.Contains(expr, "&") {
		for _, part := range strings.Split(expr, "&") {
			if NormalizeDateID(strings.TrimSpace(part)) == dateID {
				return true
			}
		}
		return false
	}
	return NormalizeDateID(expr) == dateID
}

// blocksWholeDay reports whether the rule's scope removes entire days.
func (b BlockRule) blocksWholeDay() bool {
	switch strings.ToLower(b.Scope) {
	case ScopeDay, ScopeRange, ScopeWeek, ScopeWeekend:
		return true
	}
	return false
}

// coversTime reports whether a slot-scope rule's window contains clock.
// The window is two en-dash separated endpoints, inclusive at both ends.
// Malformed windows block nothing.
func (b BlockRule) coversTime(clock string) bool {
	if !strings.EqualFold(b.Scope, ScopeSlot) {
		return false
	}
	parts := make([]string, 0, 2)
	for _, p := range strings.Split(b.Window, windowSeparator) {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) != 2 {
		return false
	}
	start := NormalizeTime(parts[0])
	end := NormalizeTime(parts[1])
	if start == "" || end == "" {
		return false
	}
	return clock >= start && clock <= end
}

// DayBlocked reports whether any whole-day rule applies to dateID.
func DayBlocked(rules []BlockRule, dateID string) bool {
	for _, r := range rules {
		if r.blocksWholeDay() && r.AppliesTo(dateID) {
			return true
		}
	}
	return false
}

// TimeBlocked reports whether any slot-scope rule covers clock on dateID.
func TimeBlocked(rules []BlockRule, dateID, clock string) bool {
	for _, r := range rules {
		if r.AppliesTo(dateID) && r.coversTime(clock) {
			return true
		}
	}
	return false
}

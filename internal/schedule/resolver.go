package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samithkalyan/telehealth-booking/pkg/logging"
)

// BookedSlot is the minimal projection of a stored booking needed for
// availability: its raw date, time, and status fields.
type BookedSlot struct {
	Date   string
	Time   string
	Status string
}

// SlotDay carries one bookable day of the horizon. Times is ordered and may
// be empty. SlotDays are derived per request and never cached; bookings and
// blocks change between requests.
type SlotDay struct {
	ID    string   `json:"id"`
	Day   string   `json:"day"`
	Label string   `json:"label"`
	Times []string `json:"times"`
}

// Source supplies the raw records the resolver derives availability from.
type Source interface {
	BookedSlots(ctx context.Context) ([]BookedSlot, error)
	BlockRules(ctx context.Context) ([]BlockRule, error)
}

// Resolver computes bookable slots over the horizon by reconciling the
// weekday schedule with existing bookings and block rules.
type Resolver struct {
	src     Source
	loc     *time.Location
	horizon int
	logger  *logging.Logger
	now     func() time.Time
}

// NewResolver creates a resolver. horizon <= 0 falls back to HorizonDays.
func NewResolver(src Source, loc *time.Location, horizon int, logger *logging.Logger) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	if horizon <= 0 {
		horizon = HorizonDays
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{
		src:     src,
		loc:     loc,
		horizon: horizon,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Upcoming returns one SlotDay per weekday in the horizon, in chronological
// order. A store failure is returned as an error so callers can tell "no
// slots" apart from "could not determine availability".
func (r *Resolver) Upcoming(ctx context.Context) ([]SlotDay, error) {
	booked, err := r.src.BookedSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("schedule: load booked slots: %w", err)
	}
	rules, err := r.src.BlockRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("schedule: load block rules: %w", err)
	}

	bookedByDay := r.indexBooked(booked)

	now := r.now().In(r.loc)
	cutoff := now.Add(LeadTime)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc)

	days := make([]SlotDay, 0, r.horizon)
	for i := 0; i < r.horizon; i++ {
		day := today.AddDate(0, 0, i)
		if IsWeekend(day) {
			continue
		}
		dateID := DateIDOf(day, r.loc)
		dayBlocked := DayBlocked(rules, dateID)
		times := DaySlots(day, bookedByDay[dateID], dayBlocked, func(clock string) bool {
			return TimeBlocked(rules, dateID, clock)
		}, cutoff)

		days = append(days, SlotDay{
			ID:    dateID,
			Day:   day.Format("Mon"),
			Label: day.Format("2 Jan"),
			Times: times,
		})
	}
	return days, nil
}

// indexBooked builds the per-day set of taken times. Cancelled bookings and
// records whose date or time fail to normalize are skipped; one bad row must
// not break the whole listing.
func (r *Resolver) indexBooked(booked []BookedSlot) map[string]map[string]bool {
	byDay := make(map[string]map[string]bool)
	for _, b := range booked {
		if strings.EqualFold(strings.TrimSpace(b.Status), "cancelled") {
			continue
		}
		dateID := NormalizeDateID(b.Date)
		clock := NormalizeTime(b.Time)
		if dateID == "" || clock == "" {
			r.logger.Debug("skipping unparseable booking record", "date", b.Date, "time", b.Time)
			continue
		}
		if byDay[dateID] == nil {
			byDay[dateID] = make(map[string]bool)
		}
		byDay[dateID][clock] = true
	}
	return byDay
}

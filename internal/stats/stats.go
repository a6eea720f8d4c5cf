// Package stats derives dashboard counters from bookings. Aggregates are
// recomputed per request; nothing is persisted.
package stats

import (
	"strings"
	"time"

	"github.com/samithkalyan/telehealth-booking/internal/schedule"
)

// Statuses the dashboard breaks counts down by. Cancelled rows count only
// toward the overall totals.
const (
	statusPending   = "pending"
	statusPaid      = "paid"
	statusCompleted = "completed"
)

// Record is the projection of a booking the aggregator consumes. Callers
// map their own booking type into it, which keeps this package free of a
// dependency on the store models.
type Record struct {
	Date   string
	Status string
	Amount int
}

// BookingCounts breaks bookings down by window and status.
type BookingCounts struct {
	Total     int `json:"total"`
	Month     int `json:"month"`
	Week      int `json:"week"`
	Today     int `json:"today"`
	Pending   int `json:"pending"`
	Paid      int `json:"paid"`
	Completed int `json:"completed"`
}

// PaymentTotals sums fee amounts by window.
type PaymentTotals struct {
	Total int `json:"total"`
	Month int `json:"month"`
	Week  int `json:"week"`
	Today int `json:"today"`
}

// Stats is the dashboard aggregate.
type Stats struct {
	Bookings BookingCounts `json:"bookings"`
	Payments PaymentTotals `json:"payments"`
}

// Aggregate computes counters over the given records relative to now.
// "Week" starts on Sunday; all windows are half-open [start, end).
// Records whose date fails to parse count toward the overall totals but no
// window.
func Aggregate(list []Record, now time.Time) *Stats {
	loc := now.Location()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	endOfDay := startOfDay.AddDate(0, 0, 1)
	startOfWeek := startOfDay.AddDate(0, 0, -int(startOfDay.Weekday()))
	endOfWeek := startOfWeek.AddDate(0, 0, 7)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	within := func(d time.Time, start, end time.Time) bool {
		return !d.Before(start) && d.Before(end)
	}

	s := &Stats{}
	for _, r := range list {
		s.Bookings.Total++
		s.Payments.Total += r.Amount

		switch strings.ToLower(strings.TrimSpace(r.Status)) {
		case statusPending:
			s.Bookings.Pending++
		case statusPaid:
			s.Bookings.Paid++
		case statusCompleted:
			s.Bookings.Completed++
		}

		day, ok := schedule.ParseDateID(schedule.NormalizeDateID(r.Date), loc)
		if !ok {
			continue
		}
		if within(day, startOfMonth, endOfMonth) {
			s.Bookings.Month++
			s.Payments.Month += r.Amount
		}
		if within(day, startOfWeek, endOfWeek) {
			s.Bookings.Week++
			s.Payments.Week += r.Amount
		}
		if within(day, startOfDay, endOfDay) {
			s.Bookings.Today++
			s.Payments.Today += r.Amount
		}
	}
	return s
}

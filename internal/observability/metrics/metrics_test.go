package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestBookingMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveBooking("public", "created")
	m.ObserveBooking("public", "created")
	m.ObserveBooking("admin", "failed")
	m.ObserveEmail("confirmation", true)
	m.ObserveEmail("completion", false)
	m.ObserveCalendarSync("create", true)
	m.ObserveCalendarSync("reschedule", false)
	m.ObserveAvailabilityLatency(0.05)

	require.Equal(t, float64(2), testutil.ToFloat64(m.bookingsTotal.WithLabelValues("public", "created")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.bookingsTotal.WithLabelValues("admin", "failed")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.emailsTotal.WithLabelValues("confirmation", "sent")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.emailsTotal.WithLabelValues("completion", "failed")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.calendarSyncTotal.WithLabelValues("create", "ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.calendarSyncTotal.WithLabelValues("reschedule", "failed")))
}

func TestBookingMetrics_NilSafe(t *testing.T) {
	var m *BookingMetrics

	// Handlers carry a nil metrics receiver in tests; observations must
	// not panic.
	require.NotPanics(t, func() {
		m.ObserveBooking("public", "created")
		m.ObserveEmail("update", true)
		m.ObserveCalendarSync("create", false)
		m.ObserveAvailabilityLatency(0.01)
	})
}

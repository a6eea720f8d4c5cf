package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flows.
type BookingMetrics struct {
	bookingsTotal       *prometheus.CounterVec
	emailsTotal         *prometheus.CounterVec
	calendarSyncTotal   *prometheus.CounterVec
	availabilityLatency prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telehealth",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Total booking create attempts",
		}, []string{"source", "status"}),
		emailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telehealth",
			Subsystem: "bookings",
			Name:      "emails_total",
			Help:      "Total booking notification emails",
		}, []string{"template", "status"}),
		calendarSyncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telehealth",
			Subsystem: "bookings",
			Name:      "calendar_sync_total",
			Help:      "Total Google Calendar provisioning attempts",
		}, []string{"operation", "status"}),
		availabilityLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "telehealth",
			Subsystem: "availability",
			Name:      "resolve_latency_seconds",
			Help:      "Latency of availability resolution",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.emailsTotal, m.calendarSyncTotal, m.availabilityLatency)
	return m
}

func (m *BookingMetrics) ObserveBooking(source, status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(source, status).Inc()
}

func (m *BookingMetrics) ObserveEmail(template string, sent bool) {
	if m == nil {
		return
	}
	status := "sent"
	if !sent {
		status = "failed"
	}
	m.emailsTotal.WithLabelValues(template, status).Inc()
}

func (m *BookingMetrics) ObserveCalendarSync(operation string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.calendarSyncTotal.WithLabelValues(operation, status).Inc()
}

func (m *BookingMetrics) ObserveAvailabilityLatency(seconds float64) {
	if m == nil {
		return
	}
	m.availabilityLatency.Observe(seconds)
}

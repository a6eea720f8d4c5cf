package bookings

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/samithkalyan/telehealth-booking/internal/observability/metrics"
	"github.com/samithkalyan/telehealth-booking/internal/schedule"
	"github.com/samithkalyan/telehealth-booking/internal/stats"
	"github.com/samithkalyan/telehealth-booking/pkg/logging"
)

// Handler handles HTTP requests for availability and bookings.
type Handler struct {
	svc      *Service
	resolver *schedule.Resolver
	metrics  *metrics.BookingMetrics
	loc      *time.Location
	logger   *logging.Logger
	now      func() time.Time
}

// NewHandler creates a bookings handler.
func NewHandler(svc *Service, resolver *schedule.Resolver, m *metrics.BookingMetrics, loc *time.Location, logger *logging.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		svc:      svc,
		resolver: resolver,
		metrics:  m,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// GetAvailability handles GET /availability. A store failure is a real
// error, distinguishable from a day with no open slots.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	days, err := h.resolver.Upcoming(r.Context())
	if err != nil {
		h.logger.Error("availability resolution failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not determine availability")
		return
	}
	h.metrics.ObserveAvailabilityLatency(time.Since(started).Seconds())

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"days":    days,
	})
}

// CreatePublicBooking handles POST /book. The public flow runs after
// payment, so the booking lands as paid.
func (h *Handler) CreatePublicBooking(w http.ResponseWriter, r *http.Request) {
	h.createBooking(w, r, "public", StatusPaid)
}

// CreateAdminBooking handles POST /admin/bookings. Manual adds start as
// pending until payment is collected.
func (h *Handler) CreateAdminBooking(w http.ResponseWriter, r *http.Request) {
	h.createBooking(w, r, "admin", StatusPending)
}

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request, source, status string) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Book(r.Context(), &req, source, status)
	if err != nil {
		switch {
		case IsValidation(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrSlotTaken):
			writeError(w, http.StatusConflict, "that slot has just been taken, please pick another time")
		default:
			h.logger.Error("booking failed", "error", err, "source", source)
			writeError(w, http.StatusInternalServerError, "booking failed")
		}
		return
	}

	h.logger.Info("booking created",
		"id", result.Booking.ID,
		"date", result.Booking.Date,
		"time", result.Booking.Time,
		"source", source,
	)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":         true,
		"booking":         result.Booking,
		"video_link":      result.VideoLink,
		"email_sent":      result.EmailSent,
		"calendar_synced": result.CalendarSynced,
	})
}

// List handles GET /admin/bookings with optional start/end/status/q filters
// and a stats flag for the dashboard aggregate.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		StartDate: schedule.NormalizeDateID(q.Get("start")),
		EndDate:   schedule.NormalizeDateID(q.Get("end")),
		Status:    q.Get("status"),
		Query:     q.Get("q"),
	}

	list, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list bookings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	payload := map[string]any{
		"success":  true,
		"bookings": list,
	}
	if q.Get("stats") != "" {
		payload["stats"] = stats.Aggregate(statsRecords(list), h.now().In(h.loc))
	}
	writeJSON(w, http.StatusOK, payload)
}

// statsRecords projects bookings into the aggregator's input type.
func statsRecords(list []*Booking) []stats.Record {
	records := make([]stats.Record, 0, len(list))
	for _, b := range list {
		records = append(records, stats.Record{Date: b.Date, Status: b.Status, Amount: b.Amount})
	}
	return records
}

// Update handles PATCH /admin/bookings/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	var req UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			writeError(w, http.StatusNotFound, "booking not found")
		case errors.Is(err, ErrNothingToUpdate):
			writeError(w, http.StatusBadRequest, "no fields to update")
		case errors.Is(err, ErrSlotTaken):
			writeError(w, http.StatusConflict, "another booking already holds that slot")
		default:
			h.logger.Error("booking update failed", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "update failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"booking":         result.Booking,
		"email_sent":      result.EmailSent,
		"calendar_synced": result.CalendarSynced,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

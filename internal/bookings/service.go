package bookings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samithkalyan/telehealth-booking/internal/calendar"
	"github.com/samithkalyan/telehealth-booking/internal/notify"
	"github.com/samithkalyan/telehealth-booking/internal/observability/metrics"
	"github.com/samithkalyan/telehealth-booking/internal/schedule"
	"github.com/samithkalyan/telehealth-booking/pkg/logging"
)

// Store is the persistence surface the service depends on.
type Store interface {
	Create(ctx context.Context, b *Booking) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	Update(ctx context.Context, id string, req *UpdateBookingRequest, videoLink, calendarEventID string) (*Booking, error)
	List(ctx context.Context, filter ListFilter) ([]*Booking, error)
	BookedSlots(ctx context.Context) ([]schedule.BookedSlot, error)
}

// Mailer sends the patient-facing booking emails.
type Mailer interface {
	SendConfirmation(ctx context.Context, b notify.BookingDetails) error
	SendUpdate(ctx context.Context, b notify.BookingDetails) error
	SendCompletion(ctx context.Context, b notify.BookingDetails) error
}

// Service runs the booking and reschedule workflows. Calendar and email are
// best-effort collaborators: their failures are logged and reflected in the
// result, but only the store decides success.
type Service struct {
	store   Store
	cal     calendar.Scheduler
	mailer  Mailer
	metrics *metrics.BookingMetrics
	loc     *time.Location
	logger  *logging.Logger
}

// NewService wires the booking workflows.
func NewService(store Store, cal calendar.Scheduler, mailer Mailer, m *metrics.BookingMetrics, loc *time.Location, logger *logging.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:   store,
		cal:     cal,
		mailer:  mailer,
		metrics: m,
		loc:     loc,
		logger:  logger,
	}
}

// BookResult reports the outcome of a booking attempt, including whether the
// best-effort side effects landed.
type BookResult struct {
	Booking        *Booking `json:"booking"`
	VideoLink      string   `json:"video_link"`
	EmailSent      bool     `json:"email_sent"`
	CalendarSynced bool     `json:"calendar_synced"`
}

// Book validates the request, provisions a Meet event (best effort),
// persists the booking, and sends the confirmation email (best effort).
// source labels the flow for metrics ("public" or "admin"); status is the
// initial booking status (paid for the public flow, pending for manual adds).
func (s *Service) Book(ctx context.Context, req *CreateBookingRequest, source, status string) (*BookResult, error) {
	if err := req.Validate(); err != nil {
		s.metrics.ObserveBooking(source, "invalid")
		return nil, err
	}

	date := schedule.NormalizeDateID(req.Date)
	clock := schedule.NormalizeTime(req.Time)
	if date == "" || clock == "" {
		s.metrics.ObserveBooking(source, "invalid")
		return nil, &ValidationError{Field: "date/time"}
	}

	videoLink := PlaceholderVideoLink
	calendarEventID := ""
	calendarSynced := false
	if s.cal != nil {
		ev, err := s.cal.Schedule(ctx, calendar.EventRequest{
			Summary:     fmt.Sprintf("Telehealth: %s (%s)", req.Name, req.TypeLabel),
			Description: req.Reason,
			Start:       s.slotStart(date, clock),
		})
		if err != nil {
			s.logger.Warn("meet link generation failed, using placeholder", "error", err, "date", date, "time", clock)
		} else {
			if ev.Link != "" {
				videoLink = ev.Link
			}
			calendarEventID = ev.EventID
			calendarSynced = true
		}
	}
	s.metrics.ObserveCalendarSync("create", calendarSynced)

	booking := &Booking{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Reason:          req.Reason,
		Date:            date,
		Time:            clock,
		TypeLabel:       req.TypeLabel,
		Amount:          req.Amount,
		Status:          status,
		PaymentMethod:   "PayFast",
		VideoLink:       videoLink,
		CalendarEventID: calendarEventID,
	}
	created, err := s.store.Create(ctx, booking)
	if err != nil {
		s.metrics.ObserveBooking(source, "failed")
		return nil, err
	}
	s.metrics.ObserveBooking(source, "created")

	emailSent := false
	if s.mailer != nil {
		if err := s.mailer.SendConfirmation(ctx, s.details(created)); err != nil {
			s.logger.Warn("confirmation email failed", "error", err, "booking_id", created.ID)
		} else {
			emailSent = true
		}
	}
	s.metrics.ObserveEmail("confirmation", emailSent)

	return &BookResult{
		Booking:        created,
		VideoLink:      videoLink,
		EmailSent:      emailSent,
		CalendarSynced: calendarSynced,
	}, nil
}

// UpdateResult reports the outcome of a reschedule or status change.
type UpdateResult struct {
	Booking        *Booking `json:"booking"`
	EmailSent      bool     `json:"email_sent"`
	CalendarSynced bool     `json:"calendar_synced"`
}

// Update applies a reschedule and/or status transition. When both a new
// date and time are supplied the calendar event is moved (or created when
// none existed); calendar failure never blocks persistence. Exactly one
// notification email is sent: the completion note when the new status is
// completed, the generic update otherwise.
func (s *Service) Update(ctx context.Context, id string, req *UpdateBookingRequest) (*UpdateResult, error) {
	if req.Empty() {
		return nil, ErrNothingToUpdate
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != "" {
		if d := schedule.NormalizeDateID(req.Date); d != "" {
			req.Date = d
		}
	}
	if req.Time != "" {
		if c := schedule.NormalizeTime(req.Time); c != "" {
			req.Time = c
		}
	}

	videoLink := ""
	calendarEventID := ""
	calendarSynced := false
	if req.IsReschedule() {
		if s.cal != nil {
			summary := fmt.Sprintf("Telehealth: %s", existing.Name)
			if existing.TypeLabel != "" {
				summary = fmt.Sprintf("Telehealth: %s (%s)", existing.Name, existing.TypeLabel)
			}
			ev, err := s.cal.Reschedule(ctx, existing.CalendarEventID, calendar.EventRequest{
				Summary:     summary,
				Description: existing.Reason,
				Start:       s.slotStart(req.Date, req.Time),
			})
			if err != nil {
				s.logger.Warn("calendar reschedule failed, persisting anyway", "error", err, "booking_id", id)
			} else {
				videoLink = ev.Link
				calendarEventID = ev.EventID
				calendarSynced = true
			}
		}
		s.metrics.ObserveCalendarSync("reschedule", calendarSynced)
	}

	updated, err := s.store.Update(ctx, id, req, videoLink, calendarEventID)
	if err != nil {
		return nil, err
	}

	emailSent := false
	completed := strings.EqualFold(strings.TrimSpace(req.Status), StatusCompleted)
	if s.mailer != nil {
		details := s.details(updated)
		if completed {
			err = s.mailer.SendCompletion(ctx, details)
		} else {
			err = s.mailer.SendUpdate(ctx, details)
		}
		if err != nil {
			s.logger.Warn("update email failed", "error", err, "booking_id", id)
		} else {
			emailSent = true
		}
	}
	template := "update"
	if completed {
		template = "completion"
	}
	s.metrics.ObserveEmail(template, emailSent)

	return &UpdateResult{
		Booking:        updated,
		EmailSent:      emailSent,
		CalendarSynced: calendarSynced,
	}, nil
}

// List proxies the admin bookings query.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Booking, error) {
	return s.store.List(ctx, filter)
}

// slotStart converts a canonical (date, clock) pair to the appointment
// start in the practice timezone.
func (s *Service) slotStart(date, clock string) time.Time {
	day, ok := schedule.ParseDateID(date, s.loc)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(schedule.ClockLayout, clock)
	if err != nil {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, s.loc)
}

func (s *Service) details(b *Booking) notify.BookingDetails {
	return notify.BookingDetails{
		Name:      b.Name,
		Email:     b.Email,
		Date:      b.Date,
		Time:      b.Time,
		TypeLabel: b.TypeLabel,
		Reason:    b.Reason,
		VideoLink: b.VideoLink,
	}
}

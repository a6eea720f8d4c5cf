package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samithkalyan/telehealth-booking/internal/schedule"
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index on active (booking_date, booking_time) pairs.
const uniqueViolation = "23505"

type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository stores bookings in the relational database.
type Repository struct {
	db db
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db db) *Repository {
	return &Repository{db: db}
}

const bookingColumns = `id, name, email, phone, reason, booking_date, booking_time,
	type_label, amount, status, payment_method, video_link, calendar_event_id, created_at`

// Create inserts a new booking row. A collision with an active booking on
// the same (date, time) surfaces as ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	query := `
		INSERT INTO bookings (id, name, email, phone, reason, booking_date, booking_time,
			type_label, amount, status, payment_method, video_link, calendar_event_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		b.ID,
		b.Name,
		b.Email,
		b.Phone,
		b.Reason,
		b.Date,
		b.Time,
		b.TypeLabel,
		b.Amount,
		b.Status,
		b.PaymentMethod,
		b.VideoLink,
		b.CalendarEventID,
	).Scan(&createdAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("bookings: insert failed: %w", err)
	}
	b.CreatedAt = createdAt
	return b, nil
}

// GetByID fetches one booking.
func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings: select failed: %w", err)
	}
	return b, nil
}

// Update persists the non-empty fields of req and returns the updated row.
func (r *Repository) Update(ctx context.Context, id string, req *UpdateBookingRequest, videoLink, calendarEventID string) (*Booking, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	add := func(column, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("booking_date", req.Date)
	add("booking_time", req.Time)
	add("status", strings.ToLower(strings.TrimSpace(req.Status)))
	add("video_link", videoLink)
	add("calendar_event_id", calendarEventID)
	if len(sets) == 0 {
		return nil, ErrNothingToUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE bookings SET %s WHERE id = $%d RETURNING `+bookingColumns,
		strings.Join(sets, ", "), len(args))

	b, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("bookings: update failed: %w", err)
	}
	return b, nil
}

// List returns bookings matching the filter, newest day first then by time.
// The free-text query matches name, email, phone, and reason.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*Booking, error) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)
	where := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.StartDate != "" {
		where("booking_date >= $%d", filter.StartDate)
	}
	if filter.EndDate != "" {
		where("booking_date <= $%d", filter.EndDate)
	}
	if filter.Status != "" {
		where("LOWER(status) = $%d", strings.ToLower(filter.Status))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR reason ILIKE $%d)", n, n, n, n))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY booking_date DESC, booking_time ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("bookings: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("bookings: scan failed: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: list rows: %w", err)
	}
	return out, nil
}

// BookedSlots returns the raw (date, time, status) projection the
// availability resolver consumes. Rows are not pre-filtered; the resolver
// owns cancellation and normalization rules.
func (r *Repository) BookedSlots(ctx context.Context) ([]schedule.BookedSlot, error) {
	rows, err := r.db.Query(ctx, `SELECT booking_date, booking_time, status FROM bookings`)
	if err != nil {
		return nil, fmt.Errorf("bookings: slots query failed: %w", err)
	}
	defer rows.Close()

	var out []schedule.BookedSlot
	for rows.Next() {
		var s schedule.BookedSlot
		if err := rows.Scan(&s.Date, &s.Time, &s.Status); err != nil {
			return nil, fmt.Errorf("bookings: slots scan failed: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: slots rows: %w", err)
	}
	return out, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Email,
		&b.Phone,
		&b.Reason,
		&b.Date,
		&b.Time,
		&b.TypeLabel,
		&b.Amount,
		&b.Status,
		&b.PaymentMethod,
		&b.VideoLink,
		&b.CalendarEventID,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

package bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/samithkalyan/telehealth-booking/internal/schedule"
)

func newTestHandler(store *stubStore) *Handler {
	svc := NewService(store, nil, &stubMailer{}, nil, time.UTC, nil)
	resolver := schedule.NewResolver(&handlerSource{store: store}, time.UTC, 7, nil).
		WithClock(func() time.Time { return time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC) })
	return NewHandler(svc, resolver, nil, time.UTC, nil)
}

type handlerSource struct {
	store *stubStore
}

func (s *handlerSource) BookedSlots(ctx context.Context) ([]schedule.BookedSlot, error) {
	return s.store.BookedSlots(ctx)
}

func (s *handlerSource) BlockRules(context.Context) ([]schedule.BlockRule, error) {
	return nil, nil
}

func testRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/availability", h.GetAvailability)
	r.Post("/book", h.CreatePublicBooking)
	r.Get("/admin/bookings", h.List)
	r.Post("/admin/bookings", h.CreateAdminBooking)
	r.Patch("/admin/bookings/{id}", h.Update)
	return r
}

func TestHandler_GetAvailability(t *testing.T) {
	r := testRouter(newTestHandler(&stubStore{}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/availability", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool               `json:"success"`
		Days    []schedule.SlotDay `json:"days"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || len(resp.Days) != 5 {
		t.Errorf("success=%v days=%d, want 5 weekdays in a 7 day horizon", resp.Success, len(resp.Days))
	}
}

func TestHandler_CreatePublicBooking(t *testing.T) {
	store := &stubStore{}
	r := testRouter(newTestHandler(store))

	body := `{"name":"Thandi M","email":"thandi@example.com","phone":"+27821234567",
		"reason":"follow-up","date":"2026-09-08","time":"08:45","type_label":"Consult","amount":450}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/book", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if store.created.Status != StatusPaid {
		t.Errorf("public booking status = %q, want paid", store.created.Status)
	}
	var resp struct {
		Success   bool     `json:"success"`
		Booking   *Booking `json:"booking"`
		VideoLink string   `json:"video_link"`
		EmailSent bool     `json:"email_sent"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Booking == nil || resp.Booking.ID == "" {
		t.Error("response should carry the persisted booking")
	}
	if resp.VideoLink != PlaceholderVideoLink {
		t.Errorf("video link = %q, want placeholder without a calendar", resp.VideoLink)
	}
}

func TestHandler_CreateAdminBookingIsPending(t *testing.T) {
	store := &stubStore{}
	r := testRouter(newTestHandler(store))

	body := `{"name":"Thandi M","email":"thandi@example.com","phone":"+27821234567",
		"reason":"follow-up","date":"2026-09-08","time":"08:45"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/bookings", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if store.created.Status != StatusPending {
		t.Errorf("admin booking status = %q, want pending", store.created.Status)
	}
}

func TestHandler_CreateBooking_Validation(t *testing.T) {
	r := testRouter(newTestHandler(&stubStore{}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/book", strings.NewReader(`{"name":"Thandi M"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("error payload = %s", rec.Body.String())
	}
}

func TestHandler_CreateBooking_Conflict(t *testing.T) {
	r := testRouter(newTestHandler(&stubStore{createErr: ErrSlotTaken}))

	body := `{"name":"Thandi M","email":"thandi@example.com","phone":"+27821234567",
		"reason":"follow-up","date":"2026-09-08","time":"08:45"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/book", strings.NewReader(body)))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestHandler_List_WithStats(t *testing.T) {
	store := &stubStore{listed: []*Booking{
		{ID: "b-1", Date: "2026-09-07", Status: StatusPaid, Amount: 450},
	}}
	r := testRouter(newTestHandler(store))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/bookings?stats=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Success  bool       `json:"success"`
		Bookings []*Booking `json:"bookings"`
		Stats    *struct {
			Bookings struct {
				Total int `json:"total"`
			} `json:"bookings"`
		} `json:"stats"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Bookings) != 1 {
		t.Errorf("bookings = %d", len(resp.Bookings))
	}
	if resp.Stats == nil || resp.Stats.Bookings.Total != 1 {
		t.Errorf("stats = %+v", resp.Stats)
	}
}

func TestStatsRecords_Projection(t *testing.T) {
	list := []*Booking{
		{Date: "2026-09-07", Status: StatusPaid, Amount: 450, Name: "Thandi M"},
		{Date: "2026-09-08", Status: StatusPending, Amount: 0},
	}

	records := statsRecords(list)

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Date != "2026-09-07" || records[0].Status != StatusPaid || records[0].Amount != 450 {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[1].Status != StatusPending {
		t.Errorf("record 1 = %+v", records[1])
	}
}

func TestHandler_List_WithoutStats(t *testing.T) {
	r := testRouter(newTestHandler(&stubStore{}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/bookings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `"stats"`) {
		t.Error("stats should only appear when requested")
	}
}

func TestHandler_Update_NotFound(t *testing.T) {
	r := testRouter(newTestHandler(&stubStore{getErr: ErrBookingNotFound}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/admin/bookings/missing", strings.NewReader(`{"status":"cancelled"}`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandler_Update_EmptyBody(t *testing.T) {
	r := testRouter(newTestHandler(&stubStore{}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/admin/bookings/b-1", strings.NewReader(`{}`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

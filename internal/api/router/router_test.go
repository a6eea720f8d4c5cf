package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samithkalyan/telehealth-booking/internal/auth"
	"github.com/samithkalyan/telehealth-booking/internal/blocks"
	"github.com/samithkalyan/telehealth-booking/internal/bookings"
	"github.com/samithkalyan/telehealth-booking/internal/schedule"
)

func newTestServer(t *testing.T) (pgxmock.PgxPoolIface, http.Handler) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)

	bookingsRepo := bookings.NewRepositoryWithDB(mock)
	blocksRepo := blocks.NewRepositoryWithDB(mock)
	resolver := schedule.NewResolver(availabilitySource{bookingsRepo, blocksRepo}, time.UTC, 7, nil)
	svc := bookings.NewService(bookingsRepo, nil, nil, nil, time.UTC, nil)

	authHandler := auth.NewHandler("letmein", "admin_session", time.Hour, false,
		auth.NewMemorySessionStore(time.Hour), nil)

	h := New(&Config{
		BookingsHandler: bookings.NewHandler(svc, resolver, nil, time.UTC, nil),
		BlocksHandler:   blocks.NewHandler(blocksRepo, nil),
		AuthHandler:     authHandler,
		MetricsHandler:  promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),

		RateLimitPerSecond: 100,
		RateLimitBurst:     100,
	})
	return mock, h
}

type availabilitySource struct {
	bookings *bookings.Repository
	blocks   *blocks.Repository
}

func (s availabilitySource) BookedSlots(ctx context.Context) ([]schedule.BookedSlot, error) {
	return s.bookings.BookedSlots(ctx)
}

func (s availabilitySource) BlockRules(ctx context.Context) ([]schedule.BlockRule, error) {
	return s.blocks.Rules(ctx)
}

func TestRouter_Health(t *testing.T) {
	_, h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRouter_Metrics(t *testing.T) {
	_, h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRouter_PublicAvailability(t *testing.T) {
	mock, h := newTestServer(t)
	mock.ExpectQuery("SELECT booking_date, booking_time, status FROM bookings").
		WillReturnRows(mock.NewRows([]string{"booking_date", "booking_time", "status"}))
	mock.ExpectQuery("SELECT id, block_date, block_window, scope, created_at FROM blocks").
		WillReturnRows(mock.NewRows([]string{"id", "block_date", "block_window", "scope", "created_at"}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/availability", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"days"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRouter_AdminRequiresSession(t *testing.T) {
	_, h := newTestServer(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/admin/bookings"},
		{http.MethodGet, "/admin/blocks"},
		{http.MethodGet, "/admin/availability"},
		{http.MethodPost, "/admin/logout"},
		{http.MethodPatch, "/admin/bookings/b-1"},
		{http.MethodDelete, "/admin/blocks/blk-1"},
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", route.method, route.path, rec.Code)
		}
	}
}

func TestRouter_LoginThenAdminAccess(t *testing.T) {
	mock, h := newTestServer(t)

	loginRec := httptest.NewRecorder()
	h.ServeHTTP(loginRec, httptest.NewRequest(http.MethodPost, "/admin/login",
		strings.NewReader(`{"password":"letmein"}`)))
	if loginRec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", loginRec.Code, loginRec.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range loginRec.Result().Cookies() {
		if c.Name == "admin_session" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no session cookie issued")
	}

	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WillReturnRows(mock.NewRows([]string{
			"id", "name", "email", "phone", "reason", "booking_date", "booking_time",
			"type_label", "amount", "status", "payment_method", "video_link", "calendar_event_id", "created_at",
		}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	req.AddCookie(cookie)
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("admin list status = %d: %s", rec.Code, rec.Body.String())
	}
}

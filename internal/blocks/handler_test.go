package blocks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func newTestRouter(t *testing.T) (pgxmock.PgxPoolIface, *chi.Mux) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)

	h := NewHandler(NewRepositoryWithDB(mock), nil)
	r := chi.NewRouter()
	r.Get("/admin/blocks", h.List)
	r.Post("/admin/blocks", h.Create)
	r.Patch("/admin/blocks/{id}", h.Update)
	r.Delete("/admin/blocks/{id}", h.Delete)
	return mock, r
}

func TestHandler_List_EmptyIsNotNull(t *testing.T) {
	mock, r := newTestRouter(t)
	mock.ExpectQuery("SELECT id, block_date, block_window, scope, created_at FROM blocks").
		WillReturnRows(mock.NewRows([]string{"id", "block_date", "block_window", "scope", "created_at"}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/blocks", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"blocks":[]`) {
		t.Errorf("empty list should serialize as [], got %s", rec.Body.String())
	}
}

func TestHandler_Create(t *testing.T) {
	mock, r := newTestRouter(t)
	mock.ExpectQuery("INSERT INTO blocks").
		WithArgs(pgxmock.AnyArg(), "2026-09-08 to 2026-09-12", "", "range").
		WillReturnRows(mock.NewRows([]string{"created_at"}).AddRow(time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)))

	body := `{"date": "2026-09-08 to 2026-09-12", "scope": "range"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/blocks", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool   `json:"success"`
		Block   *Block `json:"block"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Block == nil || resp.Block.Scope != "range" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHandler_Create_MissingDate(t *testing.T) {
	_, r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/blocks", strings.NewReader(`{"scope":"day"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("error payload = %s", rec.Body.String())
	}
}

func TestHandler_Update_NotFound(t *testing.T) {
	mock, r := newTestRouter(t)
	mock.ExpectExec("UPDATE blocks SET").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/admin/blocks/missing", strings.NewReader(`{"date":"2026-09-08"}`))
	r.ServeHTTP(rec, req.WithContext(context.Background()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandler_Delete(t *testing.T) {
	mock, r := newTestRouter(t)
	mock.ExpectExec("DELETE FROM blocks").
		WithArgs("blk-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/blocks/blk-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

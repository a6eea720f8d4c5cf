package blocks

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samithkalyan/telehealth-booking/pkg/logging"
)

// Handler handles the admin block CRUD endpoints.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

// NewHandler creates a blocks handler.
func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /admin/blocks.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list blocks", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list blocks")
		return
	}
	if list == nil {
		list = []*Block{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "blocks": list})
}

// Create handles POST /admin/blocks.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	block, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrDateRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create block", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create block")
		return
	}
	h.logger.Info("block created", "id", block.ID, "scope", block.Scope, "date", block.Date)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "block": block})
}

// Update handles PATCH /admin/blocks/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}
	var req UpsertBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.repo.Update(r.Context(), id, &req); err != nil {
		switch {
		case errors.Is(err, ErrDateRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrBlockNotFound):
			writeError(w, http.StatusNotFound, "block not found")
		default:
			h.logger.Error("failed to update block", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to update block")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Delete handles DELETE /admin/blocks/{id}. Blocks are the one record type
// the admin UI removes outright.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrBlockNotFound) {
			writeError(w, http.StatusNotFound, "block not found")
			return
		}
		h.logger.Error("failed to delete block", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete block")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

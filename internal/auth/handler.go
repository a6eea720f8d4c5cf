package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/samithkalyan/telehealth-booking/pkg/logging"
)

// Handler implements the shared-password admin login. A correct password
// yields a session cookie; every /admin route validates it through
// RequireSession.
type Handler struct {
	password   string
	cookieName string
	ttl        time.Duration
	secure     bool
	sessions   SessionStore
	logger     *logging.Logger
}

// NewHandler creates the login/logout handler. secure controls the cookie's
// Secure flag and should be true outside development.
func NewHandler(password, cookieName string, ttl time.Duration, secure bool, sessions SessionStore, logger *logging.Logger) *Handler {
	if cookieName == "" {
		cookieName = "admin_session"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		password:   password,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		sessions:   sessions,
		logger:     logger,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /admin/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.password == "" {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "admin password not set"})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid request body"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) != 1 {
		h.logger.Warn("admin login rejected", "remote_ip", r.RemoteAddr)
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "invalid password"})
		return
	}

	token, err := h.sessions.Create(r.Context())
	if err != nil {
		h.logger.Error("session create failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "could not create session"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Logout handles POST /admin/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("session destroy failed", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// RequireSession gates admin routes on a valid session cookie.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.cookieName)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "login required"})
			return
		}
		ok, err := h.sessions.Valid(r.Context(), cookie.Value)
		if err != nil {
			h.logger.Error("session lookup failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "session lookup failed"})
			return
		}
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "login required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

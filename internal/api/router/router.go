package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/samithkalyan/telehealth-booking/internal/auth"
	"github.com/samithkalyan/telehealth-booking/internal/blocks"
	"github.com/samithkalyan/telehealth-booking/internal/bookings"
	httpmiddleware "github.com/samithkalyan/telehealth-booking/internal/http/middleware"
	"github.com/samithkalyan/telehealth-booking/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	BookingsHandler *bookings.Handler
	BlocksHandler   *blocks.Handler
	AuthHandler     *auth.Handler
	MetricsHandler  http.Handler

	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (booking form, health, metrics)
	r.Group(func(public chi.Router) {
		if cfg.RateLimitPerSecond > 0 {
			public.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
		}
		public.Get("/health", healthCheck)
		public.Get("/availability", cfg.BookingsHandler.GetAvailability)
		public.Post("/book", cfg.BookingsHandler.CreatePublicBooking)
		if cfg.AuthHandler != nil {
			public.Post("/admin/login", cfg.AuthHandler.Login)
		}
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Admin routes (protected by the session cookie)
	if cfg.AuthHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(cfg.AuthHandler.RequireSession)
			admin.Post("/logout", cfg.AuthHandler.Logout)

			// Same resolver as the public form, for the reschedule and
			// manual-add pickers.
			admin.Get("/availability", cfg.BookingsHandler.GetAvailability)

			admin.Route("/bookings", func(r chi.Router) {
				r.Get("/", cfg.BookingsHandler.List)
				r.Post("/", cfg.BookingsHandler.CreateAdminBooking)
				r.Patch("/{id}", cfg.BookingsHandler.Update)
			})

			if cfg.BlocksHandler != nil {
				admin.Route("/blocks", func(r chi.Router) {
					r.Get("/", cfg.BlocksHandler.List)
					r.Post("/", cfg.BlocksHandler.Create)
					r.Patch("/{id}", cfg.BlocksHandler.Update)
					r.Delete("/{id}", cfg.BlocksHandler.Delete)
				})
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.PracticeTimezone != "Africa/Johannesburg" {
		t.Errorf("PracticeTimezone = %q", cfg.PracticeTimezone)
	}
	if cfg.BookingHorizonDays != 21 {
		t.Errorf("BookingHorizonDays = %d, want 21", cfg.BookingHorizonDays)
	}
	if cfg.AdminCookieName != "admin_session" {
		t.Errorf("AdminCookieName = %q", cfg.AdminCookieName)
	}
	if cfg.AdminSessionTTL != 7*24*time.Hour {
		t.Errorf("AdminSessionTTL = %v", cfg.AdminSessionTTL)
	}
	if cfg.GoogleCalendarID != "primary" {
		t.Errorf("GoogleCalendarID = %q", cfg.GoogleCalendarID)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Errorf("EmailProvider = %q", cfg.EmailProvider)
	}
	if cfg.EmailFromName != "Dr Samith Kalyan" {
		t.Errorf("EmailFromName = %q", cfg.EmailFromName)
	}
	if cfg.RateLimitPerSecond != 5 || cfg.RateLimitBurst != 20 {
		t.Errorf("rate limit = %v/%d", cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("BOOKING_HORIZON_DAYS", "14")
	t.Setenv("EMAIL_PROVIDER", " SES ")
	t.Setenv("ADMIN_SESSION_TTL", "48h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://booking.example.com, https://admin.example.com")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("Env = %q", cfg.Env)
	}
	if cfg.BookingHorizonDays != 14 {
		t.Errorf("BookingHorizonDays = %d", cfg.BookingHorizonDays)
	}
	if cfg.EmailProvider != "ses" {
		t.Errorf("EmailProvider = %q, want lowercased/trimmed", cfg.EmailProvider)
	}
	if cfg.AdminSessionTTL != 48*time.Hour {
		t.Errorf("AdminSessionTTL = %v", cfg.AdminSessionTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://admin.example.com" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.RedisTLS {
		t.Error("RedisTLS should be true")
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("BOOKING_HORIZON_DAYS", "soon")
	t.Setenv("RATE_LIMIT_PER_SECOND", "lots")
	t.Setenv("ADMIN_SESSION_TTL", "forever")

	cfg := Load()

	if cfg.BookingHorizonDays != 21 {
		t.Errorf("BookingHorizonDays = %d, want default", cfg.BookingHorizonDays)
	}
	if cfg.RateLimitPerSecond != 5 {
		t.Errorf("RateLimitPerSecond = %v, want default", cfg.RateLimitPerSecond)
	}
	if cfg.AdminSessionTTL != 7*24*time.Hour {
		t.Errorf("AdminSessionTTL = %v, want default", cfg.AdminSessionTTL)
	}
}

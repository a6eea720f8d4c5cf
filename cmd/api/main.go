package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/samithkalyan/telehealth-booking/internal/api/router"
	"github.com/samithkalyan/telehealth-booking/internal/auth"
	"github.com/samithkalyan/telehealth-booking/internal/blocks"
	"github.com/samithkalyan/telehealth-booking/internal/bookings"
	"github.com/samithkalyan/telehealth-booking/internal/calendar"
	appconfig "github.com/samithkalyan/telehealth-booking/internal/config"
	"github.com/samithkalyan/telehealth-booking/internal/notify"
	"github.com/samithkalyan/telehealth-booking/internal/observability/metrics"
	"github.com/samithkalyan/telehealth-booking/internal/schedule"
	"github.com/samithkalyan/telehealth-booking/pkg/logging"
)

// availabilitySource feeds the resolver from the two repositories that
// determine whether a slot is open.
type availabilitySource struct {
	bookings *bookings.Repository
	blocks   *blocks.Repository
}

func (s *availabilitySource) BookedSlots(ctx context.Context) ([]schedule.BookedSlot, error) {
	return s.bookings.BookedSlots(ctx)
}

func (s *availabilitySource) BlockRules(ctx context.Context) ([]schedule.BlockRule, error) {
	return s.blocks.Rules(ctx)
}

func main() {
	// Local development reads .env; in production the variables come
	// from the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting telehealth-booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	loc, err := time.LoadLocation(cfg.PracticeTimezone)
	if err != nil {
		logger.Error("invalid practice timezone", "tz", cfg.PracticeTimezone, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	// Admin sessions live in Redis when configured so logins survive
	// restarts; otherwise they fall back to process memory.
	var sessions auth.SessionStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		sessions = auth.NewRedisSessionStore(redisClient, cfg.AdminSessionTTL)
		logger.Info("admin sessions backed by redis", "addr", cfg.RedisAddr)
	} else {
		sessions = auth.NewMemorySessionStore(cfg.AdminSessionTTL)
		logger.Warn("REDIS_ADDR not set, admin sessions are in-memory only")
	}

	tokens := calendar.NewPostgresTokenStore(pool)
	scheduler := calendar.NewGoogleScheduler(calendar.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURI:  cfg.GoogleRedirectURI,
		CalendarID:   cfg.GoogleCalendarID,
	}, tokens, logger)

	mailer := notify.NewBookingMailer(buildEmailSender(ctx, cfg, logger), cfg.EmailFromName, logger)

	bookingMetrics := metrics.NewBookingMetrics(nil)

	bookingsRepo := bookings.NewRepository(pool)
	blocksRepo := blocks.NewRepository(pool)

	resolver := schedule.NewResolver(&availabilitySource{
		bookings: bookingsRepo,
		blocks:   blocksRepo,
	}, loc, cfg.BookingHorizonDays, logger)

	bookingsService := bookings.NewService(bookingsRepo, scheduler, mailer, bookingMetrics, loc, logger)

	bookingsHandler := bookings.NewHandler(bookingsService, resolver, bookingMetrics, loc, logger)
	blocksHandler := blocks.NewHandler(blocksRepo, logger)

	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD not set, admin login is disabled")
	}
	authHandler := auth.NewHandler(
		cfg.AdminPassword,
		cfg.AdminCookieName,
		cfg.AdminSessionTTL,
		cfg.Env == "production",
		sessions,
		logger,
	)

	r := router.New(&router.Config{
		Logger:          logger,
		BookingsHandler: bookingsHandler,
		BlocksHandler:   blocksHandler,
		AuthHandler:     authHandler,
		MetricsHandler:  promhttp.Handler(),

		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildEmailSender picks the delivery provider from configuration. A nil
// provider falls through to the stub so booking flows still complete.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "ses":
		loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
		if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
			loaders = append(loaders, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
			))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
		if err != nil {
			logger.Error("failed to load AWS config, email delivery disabled", "error", err)
			break
		}
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger); sender != nil {
			return sender
		}
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger); sender != nil {
			return sender
		}
		logger.Warn("SENDGRID_API_KEY not set, email delivery disabled")
	}
	return notify.NewStubEmailSender(logger)
}

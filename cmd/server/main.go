package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/eventgate/checkin-server-go/internal/config"
	"github.com/eventgate/checkin-server-go/internal/database"
	"github.com/eventgate/checkin-server-go/internal/handler"
	"github.com/eventgate/checkin-server-go/internal/jobs"
	"github.com/eventgate/checkin-server-go/internal/mail"
	"github.com/eventgate/checkin-server-go/internal/middleware"
	"github.com/eventgate/checkin-server-go/internal/qr"
	"github.com/eventgate/checkin-server-go/internal/redis"
	"github.com/eventgate/checkin-server-go/internal/repository"
	"github.com/eventgate/checkin-server-go/internal/service"
	"github.com/eventgate/checkin-server-go/internal/sse"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	attendeeRepo := repository.NewAttendeeRepository(db.DB)
	eventRepo := repository.NewEventRepository(db.DB)

	registry, err := qr.NewDefaultRegistry()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build qr registry")
	}

	var inviteSender mail.InviteSender
	if cfg.SMTPConfigured() {
		inviteSender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		log.Info().Str("host", cfg.SMTPHost).Msg("smtp invite dispatch enabled")
	} else {
		inviteSender = mail.NewLogSender()
		log.Warn().Msg("smtp not configured, invites will be logged only")
	}

	broker := sse.NewBroker(redisClient)
	defer broker.Close()

	checkInService := service.NewCheckInService(attendeeRepo, eventRepo, broker)
	issuanceService := service.NewIssuanceService(attendeeRepo, eventRepo, registry, inviteSender, cfg.BaseURL)
	rateLimiter := service.NewRateLimiter(redisClient.Client)

	scanRateLimit := middleware.NewIPRateLimitMiddleware(
		rateLimiter, cfg.ScanRateLimitPerMin, config.ScanRateLimitWindow, "scan",
	)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)

	checkInHandler := handler.NewCheckInHandler(checkInService)
	qrCodeHandler := handler.NewQRCodeHandler(issuanceService)
	liveFeedHandler := handler.NewLiveFeedHandler(broker, eventRepo)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/checkin", func(r chi.Router) {
		r.Use(scanRateLimit.Handler)
		r.Mount("/", checkInHandler.Routes())
	})

	r.Route("/v1/events/{eventID}", func(r chi.Router) {
		r.Mount("/", qrCodeHandler.Routes())
		r.Get("/checkins/live", liveFeedHandler.ServeHTTP)
	})

	statsJob := jobs.NewStatsJob(eventRepo, attendeeRepo, config.StatsJobInterval)
	statsJob.Start()
	defer statsJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

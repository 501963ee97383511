package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mmuslimabdulj/goat-call/internal/config"
	httpHandler "github.com/mmuslimabdulj/goat-call/internal/delivery/http"
	"github.com/mmuslimabdulj/goat-call/internal/delivery/ws"
	"github.com/mmuslimabdulj/goat-call/internal/middleware"
)

func main() {
	// Load configuration (.env first, then environment)
	cfg := config.LoadFromEnv()

	logger := newLogger(cfg)

	// Initialize dependencies
	roomManager := ws.NewRoomManager(ws.Options{
		MaxHistorySize:  cfg.MaxHistorySize,
		RingTimeout:     cfg.RingTimeout,
		RoomIdleTimeout: cfg.RoomIdleTimeout,
		MaxMessageSize:  cfg.MaxMessageSize,
		EventRate:       cfg.RateLimitEvents,
		EventBurst:      cfg.RateLimitEventsBurst,
		Logger:          logger,
	})
	origins := middleware.NewOriginChecker(cfg.AllowedOrigins, cfg.IsDevelopment())
	handler := httpHandler.NewHandler(roomManager, origins, logger)

	router, stopLimiters := httpHandler.NewRouter(handler, cfg, logger)
	defer stopLimiters()

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting GOAT call server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Int("rooms", roomManager.GetRoomCount()).Msg("server stopped")
}

// newLogger writes human-readable output in development and JSON otherwise
func newLogger(cfg *config.Config) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	switch cfg.LogLevel {
	case "silent", "off":
		return logger.Level(zerolog.Disabled)
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

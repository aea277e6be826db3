// EyeNav - multi-modal web session recording server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheSoftwareDesignLab/EyeNav/internal/api"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/automation"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/config"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/gaze"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/middleware"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/recorder"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/relay"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/store"
	"github.com/TheSoftwareDesignLab/EyeNav/internal/voice"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "output_dir", cfg.OutputDir, "dev", cfg.IsDevelopment())

	// Initialize the session index (optional).
	var repo store.Repository
	if cfg.SessionIndex {
		repo, err = store.NewSQLite(cfg.DBPath)
		if err != nil {
			slog.Error("Failed to initialize session index", "error", err)
			os.Exit(1)
		}
		defer func() {
			if closeErr := repo.Close(); closeErr != nil {
				slog.Error("Failed to close session index", "error", closeErr)
			}
		}()

		if err := repo.Ping(context.Background()); err != nil {
			slog.Error("Session index health check failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Session index connected", "path", cfg.DBPath)
	} else {
		slog.Info("Session index disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Realtime relay: forward loop plus liveness probe.
	hub := relay.NewHub(cfg.RelayPingInterval)
	go hub.Run(ctx)
	go hub.RunPings(ctx)

	// Pipeline collaborators. The OS automation backend and the eye
	// tracker are attached by the host integration; the defaults log
	// actions and report no gaze samples.
	control := automation.NopController{}
	tracker := gaze.NewTracker(gaze.NullSource{}, control)

	// Utterance source for the speech engine adapter.
	utterances := make(chan string)
	mgr := recorder.NewManager(cfg.OutputDir, repo, hub, control, voice.ChanSource(utterances), tracker)

	// Initialize handlers.
	handler := api.NewHandler(mgr, repo)
	wsHandler := relay.NewHandler(hub, cfg.AllowedOrigin, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{cfg.AllowedOrigin}))

	handler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws", wsHandler.ServeHTTP)

	// Create server.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout, the relay holds connections open
		IdleTimeout:  120 * time.Second,
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	if mgr.Running() {
		if err := mgr.Stop(); err != nil {
			slog.Warn("Failed to stop recording session during shutdown", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

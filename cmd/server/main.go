// FOLIO - Portfolio Site with AI Chat Assistant
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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/folioai/folio/internal/api"
	"github.com/folioai/folio/internal/chat"
	"github.com/folioai/folio/internal/config"
	"github.com/folioai/folio/internal/gemini"
	"github.com/folioai/folio/internal/github"
	"github.com/folioai/folio/internal/middleware"
	"github.com/folioai/folio/internal/profile"
	"github.com/folioai/folio/internal/session"
	"github.com/folioai/folio/web"
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

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session persistence.
	persister, err := newPersister(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize session persistence", "error", err, "store", cfg.SessionStore)
		os.Exit(1)
	}

	sessions := session.New(persister)
	if err := sessions.Load(ctx); err != nil {
		slog.Error("Failed to load persisted sessions", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := sessions.Close(); closeErr != nil {
			slog.Error("Failed to close session store", "error", closeErr)
		}
	}()
	slog.Info("Session store ready", "store", cfg.SessionStore, "sessions", len(sessions.Sessions()))

	// Portfolio record.
	profileStore, err := profile.New(cfg.PortfolioPath)
	if err != nil {
		slog.Error("Failed to load portfolio", "error", err, "path", cfg.PortfolioPath)
		os.Exit(1)
	}
	go func() {
		if watchErr := profileStore.Watch(ctx); watchErr != nil && !errors.Is(watchErr, context.Canceled) {
			slog.Warn("Portfolio watcher stopped", "error", watchErr)
		}
	}()

	// Generation client.
	var generator chat.Generator
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, chat requests will settle as credential failures")
		generator = gemini.Disabled{}
	} else {
		genClient, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		generator = genClient
		slog.Info("Gemini client ready", "model", genClient.Model())
	}

	// Transcript logging.
	transcript, err := chat.NewTranscriptLogger(cfg.Transcript)
	if err != nil {
		slog.Error("Failed to initialize transcript logger", "error", err)
		os.Exit(1)
	}
	defer transcript.Close()

	// Turn-event fanout and conversation controller.
	hub := chat.NewHub(cfg.FrontendURL, cfg.IsDevelopment())
	ctrl := chat.NewController(sessions, profileStore, generator, transcript, hub)

	// Handlers.
	chatHandler := chat.NewHandler(ctrl, sessions)
	portfolioHandler := api.NewPortfolioHandler(profileStore)
	githubHandler := api.NewGitHubHandler(github.New(cfg.GitHubToken), profileStore, cfg.GitHubUsername)

	// Router.
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(corsOrigins(cfg)))

	chatHandler.RegisterRoutes(r)
	portfolioHandler.RegisterRoutes(r)
	githubHandler.RegisterRoutes(r)

	r.Get("/ws/chat", hub.ServeHTTP)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := sessions.Flush(shutdownCtx); err != nil {
		slog.Error("Failed to flush sessions on shutdown", "error", err)
	}

	slog.Info("Server stopped successfully")
}

func newPersister(ctx context.Context, cfg *config.Config) (session.Persister, error) {
	switch cfg.SessionStore {
	case config.SessionStoreSQLite:
		return session.NewSQLitePersister(cfg.DBPath)
	case config.SessionStoreRedis:
		return session.NewRedisPersister(ctx, cfg.RedisAddr, cfg.RedisTTL)
	default:
		return session.NewMemoryPersister(), nil
	}
}

func corsOrigins(cfg *config.Config) []string {
	if cfg.IsDevelopment() {
		return []string{"*"}
	}
	return []string{cfg.FrontendURL}
}

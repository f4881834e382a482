package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calchat/internal/auth"
	"calchat/internal/config"
	"calchat/internal/database"
	"calchat/internal/gcal"
	"calchat/internal/openai"
	"calchat/internal/server"
	"calchat/internal/timeutil"
)

func main() {
	cfg := config.LoadFromEnv()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	db, err := database.New(cfg.DBPath)
	if err != nil {
		fatal("creating database", err)
	}
	defer db.Close()

	oauthConfig, err := gcal.LoadOAuthConfig(cfg.GoogleCredentialsFile, oauthRedirectURL(cfg))
	if err != nil {
		fatal("loading Google OAuth config", err)
	}

	authService := auth.NewService(db, oauthConfig)
	extractor := initExtractor(cfg, logger)

	tz := cfg.Timezone
	loc, fellBack := timeutil.ResolveLocation(cfg.Timezone)
	if fellBack {
		logger.Warn("unknown timezone, falling back to UTC", "timezone", cfg.Timezone)
		tz = "UTC"
	}

	srv := server.New(server.ServerConfig{
		DB:             db,
		AuthService:    authService,
		Extractor:      extractor,
		Logger:         logger,
		Port:           cfg.HTTPPort,
		Timezone:       tz,
		Location:       loc,
		ListPageSize:   cfg.ListPageSize,
		CancelPageSize: cfg.CancelPageSize,
	})

	go sweepSessions(db, logger)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	waitForShutdown(srv, logger)
}

func initExtractor(cfg *config.Config, logger *slog.Logger) *openai.Client {
	if cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, event extraction will fail")
	}
	return openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITemperature)
}

// sweepSessions clears expired session rows at startup and then hourly.
func sweepSessions(db *database.DB, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		if err := db.CleanupExpiredSessions(); err != nil {
			logger.Warn("session cleanup failed", "error", err)
		}
		<-ticker.C
	}
}

func oauthRedirectURL(cfg *config.Config) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL + "/oauth/callback"
	}
	return fmt.Sprintf("http://localhost:%d/oauth/callback", cfg.HTTPPort)
}

func fatal(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}

func waitForShutdown(srv *server.Server, logger *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

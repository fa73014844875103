// Command server runs the users/posts HTTP API.
//
// Startup order: load .env if present, read configuration, initialize the
// global logger, open and migrate the database, optionally enable tracing,
// build the Gin engine with all routes, then serve until SIGINT/SIGTERM with
// a bounded graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-users-api/internal/config"
	httpapi "github.com/tbourn/go-users-api/internal/http"
	"github.com/tbourn/go-users-api/internal/observability"
	"github.com/tbourn/go-users-api/internal/repo"
	"github.com/tbourn/go-users-api/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repo.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			log.Fatal().Err(err).Msg("gorm tracing setup failed")
		}
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info().Msg("server stopped")
	os.Exit(0)
}

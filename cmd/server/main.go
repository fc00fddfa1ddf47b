package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"betlearning/config"
	"betlearning/database"
	"betlearning/learning"
	"betlearning/logger"
	"betlearning/middleware"
	"betlearning/migration"
	_ "betlearning/migration/migrations"
	"betlearning/provider/apifootball"
	"betlearning/server"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogPretty && !cfg.IsProduction())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := migration.MigrateAll(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	svc := learning.NewService(db, learning.WithLogger(logger.Component("learning")))

	providerLog := logger.Component("apifootball")
	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:        cfg.Provider.Host,
		APIKey:         cfg.Provider.APIKey,
		Timeout:        cfg.Provider.Timeout(),
		MaxRetries:     cfg.Provider.MaxRetries,
		RequestsPerSec: cfg.Provider.RequestsPerSec,
		Logger:         &providerLog,
	})
	if cfg.Provider.APIKey == "" {
		log.Warn().Msg("API_KEY not set, automatic fixture verification will fail")
	}
	if cfg.WriteAPIKeyHash == "" {
		log.Warn().Msg("WRITE_API_KEY_HASH not set, write routes are unauthenticated")
	}

	handler := server.NewRouter(server.Options{
		Service:         svc,
		Provider:        provider,
		WriteAPIKeyHash: cfg.WriteAPIKeyHash,
		AdminJWTSecret:  cfg.AdminJWTSecret,
		RateLimiter:     middleware.NewRateLimiter(cfg.RateLimitPerMinute, middleware.NewMemoryStore(), time.Now).TrustProxy(cfg.TrustProxy),
		AllowedOrigins:  cfg.CORSAllowedOrigins,
	})
	srv := server.New(":"+cfg.Port, handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	log.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("prediction learning service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}

	if err := srv.Shutdown(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}

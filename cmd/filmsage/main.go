package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/api"
	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/config"
	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/database"
	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/logger"
	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/retention"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// A local .env is a convenience for development; missing is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Path:   cfg.Logging.Path,
	})
	defer log.Close()

	log.Info().
		Str("logLevel", cfg.Logging.Level).
		Str("database", cfg.Database.Path).
		Msg("Starting FilmSage")

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	retentionSvc, err := retention.NewService(db.Conn(), cfg.Retention.ActivityMaxAgeDays, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create retention service")
	}
	if err := retentionSvc.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start retention scheduler")
	}

	server, err := api.NewServer(db.Conn(), cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create API server")
	}

	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil {
			log.Info().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")

	if err := retentionSvc.Stop(); err != nil {
		log.Warn().Err(err).Msg("Failed to stop retention scheduler")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
}

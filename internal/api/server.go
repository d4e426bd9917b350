package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/auth"
	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/config"
	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/interactions"
	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/llm/gemini"
	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/metadata/tmdb"
	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/profiles"
	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/recommend"
	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/reviews"
	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/users"
)

// Server handles HTTP requests for the FilmSage API.
type Server struct {
	echo   *echo.Echo
	db     *sql.DB
	logger zerolog.Logger
	cfg    *config.Config

	// Services
	authService        *auth.Service
	userService        *users.Service
	profileService     *profiles.Service
	reviewService      *reviews.Service
	interactionService *interactions.Service
	recommendService   *recommend.Service
}

// NewServer creates a new API server instance.
func NewServer(db *sql.DB, cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		db:     db,
		logger: logger,
		cfg:    cfg,
	}

	// Initialize services
	authService, err := auth.NewService(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}
	s.authService = authService
	s.userService = users.NewService(db, s.authService, logger)
	s.profileService = profiles.NewService(db, logger)
	s.reviewService = reviews.NewService(db, logger)
	s.interactionService = interactions.NewService(db, logger)

	// Recommendation pipeline: Gemini for drafts, TMDB for id enrichment
	tmdbClient := tmdb.NewClient(cfg.TMDB, logger)
	geminiClient := gemini.NewClient(cfg.Gemini, logger)
	enricher := recommend.NewEnricher(tmdbClient, logger)
	s.recommendService = recommend.NewService(geminiClient, enricher, logger)

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID
	s.echo.Use(middleware.RequestID())

	// CORS
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	// Gzip compression
	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", s.healthCheck)

	// API v1 group
	api := s.echo.Group("/api/v1")

	authenticate := auth.Authenticate(s.authService, s.db)

	// User routes: register and login are public, the rest require a token
	userHandlers := users.NewHandlers(s.userService)
	userGroup := api.Group("/users")
	userHandlers.RegisterPublicRoutes(userGroup)
	userHandlers.RegisterRoutes(userGroup, authenticate)

	// Profile routes
	profileHandlers := profiles.NewHandlers(s.profileService)
	profileHandlers.RegisterRoutes(api.Group("/profiles", authenticate))

	// Review routes
	reviewHandlers := reviews.NewHandlers(s.reviewService)
	reviewHandlers.RegisterRoutes(api.Group("/reviews", authenticate))

	// Interaction routes (ratings, watchlist, favorites, follows, feed)
	interactionHandlers := interactions.NewHandlers(s.interactionService)
	interactionHandlers.RegisterRoutes(api.Group("/interactions", authenticate))

	// Recommendation routes
	recommendHandlers := recommend.NewHandlers(s.recommendService)
	recommendHandlers.RegisterRoutes(api.Group("/recommendations", authenticate))
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

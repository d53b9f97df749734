// Package server provides the HTTP server for the ResetGate application.
// It handles routing, middleware configuration, and server lifecycle management.
//
// Initialization follows a fixed order so each layer can depend on the one
// before it: session store, auth providers, services, handlers, routes.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/resetgate/resetgate/internal/auth"
	"github.com/resetgate/resetgate/internal/config"
	"github.com/resetgate/resetgate/internal/constants"
	"github.com/resetgate/resetgate/internal/credential"
	"github.com/resetgate/resetgate/internal/database"
	"github.com/resetgate/resetgate/internal/handlers"
	"github.com/resetgate/resetgate/internal/service"
	"github.com/resetgate/resetgate/internal/store"
	"github.com/resetgate/resetgate/internal/utils/ratelimit"
	"github.com/resetgate/resetgate/migrations"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// ResetHandler manages the reset flow endpoints
	ResetHandler *handlers.ResetHandler
}

// AuthProviders contains the authentication services used to recognize
// already signed-in visitors.
type AuthProviders struct {
	// JWTService validates access tokens issued by the main application
	JWTService *auth.JWTService
}

// Server represents the ResetGate API server. It owns the session store,
// the services built on it, and the HTTP server lifecycle.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access when the sql store backend is selected
	Db *database.Pool

	// Sessions is the reset session store
	Sessions store.SessionStore

	// router handles HTTP routing
	router chi.Router

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// authProviders contains authentication services
	authProviders *AuthProviders

	// resetService implements the reset flow business logic
	resetService *service.ResetService

	// limiters holds per-client rate limiter state
	limiters *ratelimit.Store

	// rdb is the Redis client when the redis store backend is selected
	rdb *redis.Client

	// httpServer is the underlying HTTP server
	httpServer *http.Server
}

// NewServer creates a new server instance with all required components.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	if err := s.setupStore(); err != nil {
		return nil, fmt.Errorf("failed to set up session store: %w", err)
	}

	if err := s.setupAuthProviders(); err != nil {
		return nil, fmt.Errorf("failed to set up auth providers: %w", err)
	}

	if err := s.setupServices(); err != nil {
		return nil, fmt.Errorf("failed to set up services: %w", err)
	}

	if err := s.setupHandlers(); err != nil {
		return nil, fmt.Errorf("failed to set up handlers: %w", err)
	}

	s.setupRateLimiters()
	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupStore initializes the configured session store backend.
func (s *Server) setupStore() error {
	ttl := s.Config.Store.SessionTTL
	if ttl <= 0 {
		ttl = constants.ResetSessionTTL
	}

	switch s.Config.Store.Backend {
	case constants.StoreBackendMemory, "":
		s.Sessions = store.NewMemorySessionStore(ttl)

	case constants.StoreBackendRedis:
		s.rdb = redis.NewClient(&redis.Options{
			Addr:     s.Config.Store.Redis.Addr,
			Password: s.Config.Store.Redis.Password,
			DB:       s.Config.Store.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), constants.DBConnectionTimeout)
		defer cancel()
		if err := s.rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}

		s.Sessions = store.NewRedisSessionStore(s.rdb, ttl)

	case constants.StoreBackendSQL:
		db, err := database.Connect(s.Config)
		if err != nil {
			return err
		}
		s.Db = db

		ctx, cancel := context.WithTimeout(context.Background(), constants.DBConnectionTimeout)
		defer cancel()
		if err := migrations.NewMigrator(db).RunMigrations(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		s.Sessions = store.NewSQLSessionStore(db, ttl)

	default:
		return fmt.Errorf("unknown store backend: %s", s.Config.Store.Backend)
	}

	log.Info().Str("backend", s.Config.Store.Backend).Dur("session_ttl", ttl).Msg("Session store initialized")
	return nil
}

// setupAuthProviders initializes authentication providers.
func (s *Server) setupAuthProviders() error {
	s.authProviders = &AuthProviders{
		JWTService: auth.NewJWTService(&s.Config.JWT),
	}

	return nil
}

// setupServices initializes the business services.
func (s *Server) setupServices() error {
	if s.Sessions == nil {
		return fmt.Errorf("session store not initialized")
	}

	ttl := s.Config.Store.SessionTTL
	if ttl <= 0 {
		ttl = constants.ResetSessionTTL
	}

	validator := service.NewValidationService(s.Sessions, ttl)
	credentials := credential.NewClient(s.Config)

	s.resetService = service.NewResetService(s.Sessions, validator, credentials)

	return nil
}

// setupHandlers initializes all HTTP request handlers.
func (s *Server) setupHandlers() error {
	if s.resetService == nil {
		return fmt.Errorf("reset service not initialized")
	}

	ttl := s.Config.Store.SessionTTL
	if ttl <= 0 {
		ttl = constants.ResetSessionTTL
	}

	s.Handlers = &Handlers{
		ResetHandler: handlers.NewResetHandler(s.resetService, ttl, s.Config.App.IsProduction()),
	}

	return nil
}

// setupRateLimiters configures the per-category token buckets. Submissions
// carry a tighter budget than validation because each one burns an OTP guess.
func (s *Server) setupRateLimiters() {
	defaultRate := ratelimit.Rate{
		RequestsPerSecond: s.Config.RateLimit.RequestsPerSecond,
		Burst:             s.Config.RateLimit.Burst,
	}
	if defaultRate.RequestsPerSecond <= 0 {
		defaultRate.RequestsPerSecond = constants.DefaultRateLimitPerSecond
	}
	if defaultRate.Burst <= 0 {
		defaultRate.Burst = constants.DefaultRateLimitBurst
	}

	submitRate := ratelimit.Rate{
		RequestsPerSecond: s.Config.RateLimit.SubmitRequestsPerSecond,
		Burst:             s.Config.RateLimit.SubmitBurst,
	}
	if submitRate.RequestsPerSecond <= 0 {
		submitRate.RequestsPerSecond = constants.SubmitRateLimitPerSecond
	}
	if submitRate.Burst <= 0 {
		submitRate.Burst = constants.SubmitRateLimitBurst
	}

	s.limiters = ratelimit.NewStore(defaultRate, constants.RateLimiterCleanupInterval)
	s.limiters.SetRate(constants.RateLimitCategorySubmit, submitRate)
}

// Start starts the HTTP server and blocks until a server error or a
// shutdown signal.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	s.SetupMaintenanceTasks()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// before closing the store backends.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	if closer, ok := s.Sessions.(interface{ Close() }); ok {
		closer.Close()
	}

	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis client")
		}
	}

	if s.Db != nil {
		s.Db.Close()
		log.Info().Msg("Database connection closed")
	}

	return nil
}

// SetupMaintenanceTasks starts the periodic sweep of long-expired sessions.
// Only the sql backend needs it; memory and redis reclaim their own keys.
func (s *Server) SetupMaintenanceTasks() {
	sqlStore, ok := s.Sessions.(*store.SQLSessionStore)
	if !ok {
		return
	}

	ticker := time.NewTicker(constants.SessionSweepInterval)
	go func() {
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), constants.DBQueryTimeout)

			if count, err := sqlStore.Sweep(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to sweep expired reset sessions")
			} else if count > 0 {
				log.Info().Int64("count", count).Msg("Swept expired reset sessions")
			}

			cancel()
		}
	}()
}

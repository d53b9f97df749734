package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/resetgate/resetgate/internal/auth"
	"github.com/resetgate/resetgate/internal/constants"
	"github.com/resetgate/resetgate/internal/middleware"
	"github.com/resetgate/resetgate/internal/utils"
)

// SetupRoutes configures the routes for the application.
//
// The layout:
//   - Health check and version endpoints, unthrottled
//   - The reset flow under /api/reset: validate, submit, and session lifecycle
//
// No route requires authentication. The Identify middleware only marks
// visitors who already hold a signed-in session so the validator can turn
// them away from the flow.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	allowedOrigins := s.Config.CORS.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = defaultAllowedOrigins()
	}

	r.Use(middleware.CORS(allowedOrigins, s.Config.CORS.AllowCredentials))

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders())
	r.Use(requestLogger())

	// Health check and version routes
	r.Group(func(r chi.Router) {
		r.Get(constants.HealthPath, s.handleHealth)
		r.Get(constants.VersionPath, s.handleVersion)
	})

	// Reset flow routes
	r.Route(constants.ResetBasePath, func(r chi.Router) {
		r.Use(chimiddleware.NoCache)
		r.Use(auth.Identify(auth.NewJWTAuthProvider(s.authProviders.JWTService)))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(s.limiters, constants.RateLimitCategoryAPI))
			r.Post("/validate", s.Handlers.ResetHandler.Validate)
			r.Post("/session", s.Handlers.ResetHandler.CreateSession)
			r.Delete("/session", s.Handlers.ResetHandler.ClearSession)
		})

		// Submissions burn OTP guesses, so they get the tight bucket
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(s.limiters, constants.RateLimitCategorySubmit))
			r.Post("/submit", s.Handlers.ResetHandler.Submit)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.NotFound(w, constants.MsgResourceNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.MethodNotAllowed(w)
	})

	s.router = r
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// handleHealth reports liveness, including store backend health for the
// backends that can fail independently of the process.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.Db != nil {
		if err := s.Db.HealthCheck(r.Context()); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			utils.Error(w, constants.StatusServiceUnavailable, constants.CodeServiceUnavailable, "Service is not healthy", nil)
			return
		}
	}

	if s.rdb != nil {
		if err := s.rdb.Ping(r.Context()).Err(); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			utils.Error(w, constants.StatusServiceUnavailable, constants.CodeServiceUnavailable, "Service is not healthy", nil)
			return
		}
	}

	utils.JSON(w, constants.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.Config.App.Version,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, constants.StatusOK, map[string]string{
		"version":     s.Config.App.Version,
		"environment": s.Config.App.Environment,
	})
}

// requestLogger emits one structured log line per request.
func requestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			utils.LogHTTPRequest(
				r.Header.Get(constants.HeaderXRequestID),
				r.Method,
				r.URL.Path,
				middleware.GetClientIP(r),
				r.UserAgent(),
				ww.Status(),
				time.Since(start),
			)
		})
	}
}

// defaultAllowedOrigins is the fallback CORS list for local development.
func defaultAllowedOrigins() []string {
	origins := []string{"http://localhost:5173", "https://localhost:5173"}
	log.Info().Strs("allowed_origins", origins).Msg("Using default CORS allowed origins")
	return origins
}

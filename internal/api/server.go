package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/skillforge/learn-engine/internal/learning"
	"github.com/skillforge/learn-engine/internal/ratelimit"
)

// Server represents the HTTP API server
type Server struct {
	router          *chi.Mux
	service         learning.Service
	jwtSecret       string
	limiter         *ratelimit.Limiter
	generateLimiter *ratelimit.Limiter
}

// NewServer creates a new API server. Either limiter may be nil to disable
// rate limiting on its route class; jwtSecret may be empty to skip bearer
// token verification entirely.
func NewServer(service learning.Service, jwtSecret string, limiter, generateLimiter *ratelimit.Limiter) *Server {
	s := &Server{
		service:         service,
		jwtSecret:       jwtSecret,
		limiter:         limiter,
		generateLimiter: generateLimiter,
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(s.identityMiddleware)

	// Health checks (public, unmetered)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimitMiddleware(s.limiter, "api"))

		r.Route("/challenges", func(r chi.Router) {
			r.Get("/feed", s.handleFeed)
			r.With(s.rateLimitMiddleware(s.generateLimiter, "generate")).
				Post("/generate", s.handleGenerate)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/comments", s.handleListComments)
				r.Post("/comments", s.handleAddComment)
				r.Get("/likes", s.handleChallengeLikeStatus)
				r.Post("/likes", s.handleChallengeLikeToggle)
			})
		})

		r.Route("/submissions", func(r chi.Router) {
			r.Get("/", s.handleListSubmissions)
			r.Post("/", s.handleCreateSubmission)
			r.Patch("/", s.handleUpdateSubmission)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/likes", s.handleSubmissionLikeStatus)
				r.Post("/likes", s.handleSubmissionLikeToggle)
			})
		})

		r.Route("/courses", func(r chi.Router) {
			r.Post("/enroll", s.handleEnroll)
			r.Patch("/enroll", s.handleUpdateProgress)
			r.Post("/rate", s.handleRate)
			r.Get("/rate", s.handleListRatings)
			r.Get("/stats", s.handleCourseStats)
		})

		// Legacy generation endpoint kept for older clients; returns the
		// bare challenge instead of the wrapped payload
		r.With(s.rateLimitMiddleware(s.generateLimiter, "generate")).
			Post("/generate-challenge", s.handleGenerateLegacy)

		r.Post("/request-course", s.handleRequestCourse)
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// Package api exposes the import, export, sensitivity and report operations
// over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/bep-cli/internal/intake"
	"github.com/sells-group/bep-cli/internal/store"
)

// Options configures the router.
type Options struct {
	MaxUploadBytes int64
	RatePerSec     float64
	Burst          int
	AllowedOrigins []string
	// Now stamps default export file names.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = 10 << 20
	}
	if o.RatePerSec <= 0 {
		o.RatePerSec = 5
	}
	if o.Burst <= 0 {
		o.Burst = 10
	}
	if len(o.AllowedOrigins) == 0 {
		o.AllowedOrigins = []string{"*"}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Server holds handler dependencies. Store may be nil, in which case the
// project routes answer 503.
type Server struct {
	intake *intake.Service
	store  store.Store
	opts   Options
}

// New creates a Server.
func New(svc *intake.Service, st store.Store, opts Options) *Server {
	return &Server{intake: svc, store: st, opts: opts.withDefaults()}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		renderProblem(w, r, http.StatusNotFound, "The requested resource was not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		renderProblem(w, r, http.StatusMethodNotAllowed, "Method "+r.Method+" is not allowed for this endpoint")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	limiter := newRateLimiter(s.opts.RatePerSec, s.opts.Burst)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limiter.Handler)

		r.Post("/import", s.handleImport)
		r.Post("/export", s.handleExport)
		r.Post("/sensitivity", s.handleSensitivity)
		r.Post("/report", s.handleReport)

		r.Get("/projects", s.handleListProjects)
		r.Get("/projects/{id}", s.handleGetProject)
	})
	return r
}

// rateLimiter rejects requests beyond a shared token bucket.
type rateLimiter struct {
	limiter *rate.Limiter
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (rl *rateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiter.Allow() {
			zap.L().Warn("api: rate limit exceeded",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			w.Header().Set("Retry-After", "1")
			renderProblem(w, r, http.StatusTooManyRequests, "Rate limit exceeded; retry shortly")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("api: request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

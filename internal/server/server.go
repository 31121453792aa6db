package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/roadmap-generator/internal/catalog"
	"github.com/jonathan/roadmap-generator/internal/logger"
	"github.com/jonathan/roadmap-generator/internal/roadmap"
	"github.com/jonathan/roadmap-generator/internal/server/ratelimit"
	"github.com/jonathan/roadmap-generator/internal/types"
)

// RequestIDHeader carries the per-request ID in both directions
const RequestIDHeader = "X-Request-ID"

// Generator produces roadmaps
type Generator interface {
	Generate(ctx context.Context, req types.GenerateRequest, progress roadmap.ProgressFunc) (*types.GenerationResult, error)
}

// Analyzer reads resumes, suggests domains and answers chat questions
type Analyzer interface {
	AnalyzeResume(ctx context.Context, rawText string) (*types.Profile, error)
	RecommendDomains(ctx context.Context, profile types.Profile) ([]types.DomainRecommendation, error)
	Chat(ctx context.Context, message string, chat types.ChatContext) (string, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	handler        http.Handler
	generator      Generator
	analyzer       Analyzer
	catalog        *catalog.Catalog
	rateLimiter    *ratelimit.Limiter
	validate       *validator.Validate
	log            *logger.Logger
	allowedOrigins map[string]bool
}

// Config holds server configuration
type Config struct {
	Port           int
	AllowedOrigins []string // empty allows any origin
	Generator      Generator
	Analyzer       Analyzer
	Catalog        *catalog.Catalog
	Logger         *logger.Logger
	// Gatherer is served on GET /metrics when set
	Gatherer prometheus.Gatherer
	// RateLimit defaults to ratelimit.LoadConfig()
	RateLimit *ratelimit.Config
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Generator == nil || cfg.Analyzer == nil || cfg.Catalog == nil {
		return nil, fmt.Errorf("server requires a generator, an analyzer and a catalog")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}

	s := &Server{
		generator:   cfg.Generator,
		analyzer:    cfg.Analyzer,
		catalog:     cfg.Catalog,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		validate:    newValidator(),
		log:         cfg.Logger,
	}
	if len(cfg.AllowedOrigins) > 0 {
		s.allowedOrigins = make(map[string]bool, len(cfg.AllowedOrigins))
		for _, o := range cfg.AllowedOrigins {
			s.allowedOrigins[o] = true
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	if cfg.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// Catalog
	mux.HandleFunc("GET /api/technologies", s.handleTechnologies)
	mux.HandleFunc("GET /api/resources", s.handleResources)
	mux.HandleFunc("POST /api/estimate", s.handleEstimate)

	// Model-backed endpoints
	mux.HandleFunc("POST /api/analyze-resume", s.handleAnalyzeResume)
	mux.HandleFunc("POST /api/recommend-domains", s.handleRecommendDomains)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/generate-roadmap", s.handleGenerateRoadmap)
	mux.HandleFunc("POST /api/generate-roadmap/stream", s.handleGenerateRoadmapStream)

	s.handler = s.withRateLimit(s.withRequestID(s.withLogging(s.withCORS(mux))))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 20 * time.Minute, // Roadmap generation can take many minutes
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers for allowed origins
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case s.allowedOrigins == nil:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case s.allowedOrigins[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type requestIDKey struct{}

// withRequestID reuses a caller-supplied X-Request-ID or assigns a new UUID
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the request ID stored by the middleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Flush keeps SSE working through the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		s.log.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", RequestID(r.Context()),
			"remote", r.RemoteAddr)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", "error", err)
	}
}

// errorBody is the failure envelope shared by JSON responses and SSE error events
func errorBody(err error) map[string]any {
	body := map[string]any{
		"success": false,
		"error":   ErrorCode(err),
		"message": err.Error(),
	}
	var structural *roadmap.StructuralError
	if errors.As(err, &structural) {
		body["errors"] = structural.Errors
	}
	return body
}

// errorResponse writes an error JSON response, logging server-side failures
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
			"code", ErrorCode(err),
			"error", err)
	}
	s.jsonResponse(w, status, errorBody(err))
}

// extractClientID extracts the client identifier from the request.
// X-Forwarded-For is ignored since it cannot be trusted without a known proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"success":   false,
		"error":     CodeRateLimited,
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds() + 0.5)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.log.Warn("rate limit exceeded",
		"client", s.extractClientID(r),
		"path", r.URL.Path,
		"limit", info.Limit,
		"reset_at", info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// Package server provides the HTTP API for the resume optimizer: optimization
// (streaming and atomic), resume parsing and academic search proxies.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/scholar"
	"github.com/jonathan/resume-optimizer/internal/server/middleware"
	"github.com/jonathan/resume-optimizer/internal/server/ratelimit"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Defaults for Config fields left at zero
const (
	DefaultPort                     = 8080
	DefaultMaxConcurrentGenerations = 4
	DefaultShutdownTimeout          = 30 * time.Second
	DefaultGenerationWait           = 30 * time.Second
)

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	llm             llm.Client
	tier            llm.ModelTier
	documents       ingestion.DocumentPolicy
	parser          *ingestion.Parser
	serp            *scholar.SerpClient
	scopus          *scholar.ScopusClient
	rateLimiter     *ratelimit.Limiter
	generations     *semaphore.Weighted
	generationWait  time.Duration
	maxUploadBytes  int64
	shutdownTimeout time.Duration
}

// Config holds server configuration
type Config struct {
	Port                     int
	APIKey                   string
	SerpAPIKey               string
	ScopusAPIKey             string
	MaxConcurrentGenerations int
	// GenerationWait bounds how long a request queues for a generation slot
	GenerationWait  time.Duration
	MaxUploadBytes  int64
	LLMConfig       *llm.Config
	RateLimit       *ratelimit.Config
	ShutdownTimeout time.Duration
}

// Option customizes a Server after defaults are applied.
type Option func(*Server)

// WithLLMClient uses client instead of creating one from the API key.
func WithLLMClient(client llm.Client) Option {
	return func(s *Server) { s.llm = client }
}

// WithDocumentPolicy overrides the upload validation policy.
func WithDocumentPolicy(policy ingestion.DocumentPolicy) Option {
	return func(s *Server) { s.documents = policy }
}

// WithParser overrides the resume parser.
func WithParser(parser *ingestion.Parser) Option {
	return func(s *Server) { s.parser = parser }
}

// WithSearchClients overrides the academic search clients.
func WithSearchClients(serp *scholar.SerpClient, scopus *scholar.ScopusClient) Option {
	return func(s *Server) {
		s.serp = serp
		s.scopus = scopus
	}
}

// New creates a new server instance
func New(ctx context.Context, cfg Config, opts ...Option) (*Server, error) {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.MaxConcurrentGenerations <= 0 {
		cfg.MaxConcurrentGenerations = DefaultMaxConcurrentGenerations
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = types.MaxDocumentBytes
	}
	if cfg.GenerationWait <= 0 {
		cfg.GenerationWait = DefaultGenerationWait
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}

	documents := ingestion.DefaultDocumentPolicy()
	documents.MaxBytes = cfg.MaxUploadBytes

	s := &Server{
		tier:            llm.TierAdvanced,
		documents:       documents,
		parser:          ingestion.NewParser(nil),
		serp:            scholar.NewSerpClient(cfg.SerpAPIKey, nil),
		scopus:          scholar.NewScopusClient(cfg.ScopusAPIKey, nil),
		generations:     semaphore.NewWeighted(int64(cfg.MaxConcurrentGenerations)),
		generationWait:  cfg.GenerationWait,
		maxUploadBytes:  cfg.MaxUploadBytes,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.llm == nil {
		client, err := llm.NewClient(ctx, cfg.LLMConfig, cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		s.llm = client
	}
	if cfg.SerpAPIKey == "" {
		log.Printf("[server] SERP_API_KEY is not set; Google Scholar search will fail upstream")
	}
	if cfg.ScopusAPIKey == "" {
		log.Printf("[server] SCOPUS_API_KEY is not set; Scopus search will fail upstream")
	}

	s.rateLimiter = ratelimit.NewLimiter(cfg.RateLimit)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for model generation
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router wrapped in the middleware chain
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/optimize-resume-stream", s.handleOptimizeResumeStream)
	mux.HandleFunc("POST /api/optimize-resume", s.handleOptimizeResume)
	mux.HandleFunc("POST /api/parser", s.handleParseResume)
	mux.HandleFunc("GET /api/scholar/profiles", s.handleScholarProfiles)
	mux.HandleFunc("GET /api/scholar/citations", s.handleScholarCitations)
	mux.HandleFunc("GET /api/scopus/search", s.handleScopusSearch)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until ctx is cancelled, then shuts down gracefully.
// Callers typically pass a context from signal.NotifyContext.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server starting on %s", ln.Addr())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.Close()
	log.Println("Server stopped")
	return err
}

// Close releases the rate limiter and the model client
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llm != nil {
		if err := s.llm.Close(); err != nil {
			log.Printf("[server] Error closing LLM client: %v", err)
		}
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")

		if r.Method == "OPTIONS" {
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
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging assigns a request ID and logs each request
func (s *Server) withLogging(next http.Handler) http.Handler {
	return middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := middleware.GetRequestID(r.Context())
		log.Printf("[%s] %s %s (request %s)", r.Method, r.URL.Path, r.RemoteAddr, id)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v (request %s)", r.Method, r.URL.Path, time.Since(start), id)
	}))
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
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorDetailsResponse writes an error JSON response with details
func (s *Server) errorDetailsResponse(w http.ResponseWriter, status int, message, details string) {
	s.jsonResponse(w, status, map[string]string{"error": message, "details": details})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
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
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := retryAfterSeconds(info.RetryAfter)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// retryAfterSeconds rounds a delay up to whole seconds, minimum one.
func retryAfterSeconds(d time.Duration) int {
	seconds := int((d + time.Second - 1) / time.Second)
	return max(seconds, 1)
}

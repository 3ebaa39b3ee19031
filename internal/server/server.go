// Package server provides the HTTP REST API for GoFast.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/gofast-app/gofast/internal/config"
	"github.com/gofast-app/gofast/internal/fetch"
	"github.com/gofast-app/gofast/internal/hydrate"
	"github.com/gofast-app/gofast/internal/races"
	"github.com/gofast-app/gofast/internal/server/middleware"
	"github.com/gofast-app/gofast/internal/server/ratelimit"
	"github.com/gofast-app/gofast/internal/store"
)

// crewCityResolver resolves a run crew ID to its home city. Satisfied by
// *store.Store; stubbed in handler tests.
type crewCityResolver interface {
	GetCrewCity(ctx context.Context, crewID uuid.UUID) (string, error)
}

// pageTextFunc fetches a web page and extracts its readable text.
type pageTextFunc func(ctx context.Context, urlStr string) (string, error)

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	store       *store.Store
	hydrator    *hydrate.Hydrator
	races       *races.Client
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	schemaPath  string

	// Seams for the generate endpoint so its tests run without a
	// database or network.
	crewCities crewCityResolver
	pageText   pageTextFunc
}

// New creates a new server instance and connects to the database.
func New(cfg *config.Config) (*Server, error) {
	st, err := store.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		store:       st,
		hydrator:    hydrate.New(st),
		races:       races.NewClient(cfg.RaceAPIURL, cfg.RaceAPIKey),
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		jwtService:  NewJWTService(jwtConfig),
		schemaPath:  cfg.SchemaPath,
		crewCities:  st,
		pageText:    fetch.PageText,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() http.Handler {
	authed := middleware.Auth(s.jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Run generation
	mux.Handle("POST /runs/generate", authed(http.HandlerFunc(s.handleGenerateRun)))

	// Athletes
	mux.Handle("POST /athletes", authed(http.HandlerFunc(s.handleCreateAthlete)))
	mux.Handle("GET /athletes/me", authed(http.HandlerFunc(s.handleGetMe)))
	mux.HandleFunc("GET /athletes/{id}", s.handleGetAthlete)
	mux.Handle("PUT /athletes/{id}", authed(http.HandlerFunc(s.handleUpdateAthlete)))
	mux.Handle("DELETE /athletes/{id}", authed(http.HandlerFunc(s.handleDeleteAthlete)))

	// Run crews
	mux.HandleFunc("GET /crews", s.handleListCrews)
	mux.Handle("POST /crews", authed(http.HandlerFunc(s.handleCreateCrew)))
	mux.HandleFunc("GET /crews/{id}", s.handleGetCrew)
	mux.Handle("PUT /crews/{id}", authed(http.HandlerFunc(s.handleUpdateCrew)))
	mux.Handle("DELETE /crews/{id}", authed(http.HandlerFunc(s.handleDeleteCrew)))
	mux.Handle("POST /crews/{id}/join", authed(http.HandlerFunc(s.handleJoinCrew)))
	mux.Handle("POST /crews/{id}/leave", authed(http.HandlerFunc(s.handleLeaveCrew)))
	mux.HandleFunc("GET /crews/{id}/members", s.handleListMembers)

	// Crew runs and attendance
	mux.Handle("POST /crews/{id}/runs", authed(http.HandlerFunc(s.handleCreateRun)))
	mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
	mux.Handle("PUT /runs/{id}", authed(http.HandlerFunc(s.handleUpdateRun)))
	mux.Handle("DELETE /runs/{id}", authed(http.HandlerFunc(s.handleDeleteRun)))
	mux.Handle("POST /runs/{id}/rsvp", authed(http.HandlerFunc(s.handleRSVP)))
	mux.Handle("POST /runs/{id}/checkin", authed(http.HandlerFunc(s.handleCheckIn)))
	mux.HandleFunc("GET /city-runs", s.handleListCityRuns)

	// Race discovery
	mux.HandleFunc("GET /races", s.handleListRaces)

	return mux
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.store.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit enforces per-client token bucket limits.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := s.extractClientIP(r)

		allowed, info := s.rateLimiter.Allow(clientIP, r.Method, r.URL.Path)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientIP extracts the client identifier from RemoteAddr.
func (s *Server) extractClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.Reset.Unix()))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	log.Printf("[rate-limit] limit exceeded: limit=%d remaining=%d", info.Limit, info.Remaining)
	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.Reset.Format(time.RFC3339),
	})
}

// Package server provides the HTTP REST API for the careerflow agent.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/careerflow-agent/internal/agents"
	"github.com/jonathan/careerflow-agent/internal/edits"
	"github.com/jonathan/careerflow-agent/internal/llm"
	"github.com/jonathan/careerflow-agent/internal/orchestrator"
	"github.com/jonathan/careerflow-agent/internal/research"
	"github.com/jonathan/careerflow-agent/internal/store"
)

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	store        store.VersionStore
	orch         *orchestrator.Orchestrator
	applicator   *edits.Applicator
	researchOpts *research.Options

	// close hooks for owned resources
	closers []func()
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	Timeout     time.Duration
	UseBrowser  bool
	// Models overrides the model name per tier ("lite", "standard",
	// "advanced"); empty entries keep the Gemini defaults.
	Models map[string]string
}

// New creates a server backed by PostgreSQL and the configured LLM provider.
func New(ctx context.Context, cfg Config) (*Server, error) {
	pg, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	llmCfg := llm.DefaultGeminiConfig()
	for tier, model := range cfg.Models {
		llmCfg = llmCfg.WithModel(llm.ModelTier(tier), model)
	}
	if cfg.Timeout > 0 {
		llmCfg = llmCfg.WithTimeout(cfg.Timeout)
	}

	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		pg.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	s := NewWithDependencies(cfg, pg, client)
	s.closers = append(s.closers, pg.Close, func() { _ = client.Close() })
	return s, nil
}

// NewWithDependencies creates a server on explicit store and client
// instances. Tests use it with the in-memory store and a fake client.
func NewWithDependencies(cfg Config, versionStore store.VersionStore, client llm.Client) *Server {
	runner := agents.NewRunner(client)

	researchOpts := research.DefaultOptions()
	researchOpts.UseBrowser = cfg.UseBrowser

	s := &Server{
		store:        versionStore,
		orch:         orchestrator.New(versionStore, runner),
		applicator:   edits.NewApplicator(versionStore),
		researchOpts: researchOpts,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /resumes", s.handleUploadResume)
	mux.HandleFunc("GET /resumes/{id}/versions", s.handleListVersions)
	mux.HandleFunc("GET /resumes/{id}/versions/{version_id}", s.handleGetVersion)

	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /chat/nl", s.handleNaturalChat)

	mux.HandleFunc("POST /edits/apply", s.handleApplyEdits)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // generation calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the routed handler stack, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
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

	for _, closer := range s.closers {
		closer()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
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
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

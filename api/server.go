package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"stock-ai-analyst/cache"
	"stock-ai-analyst/database"
	"stock-ai-analyst/resolver"
	"stock-ai-analyst/semantic"
)

// QueryService resolves natural-language questions. Satisfied by
// resolver.Resolver; declared here so handlers can be tested with a stub.
type QueryService interface {
	Resolve(ctx context.Context, question string, limit int) *resolver.Result
}

// Server handles HTTP API requests
type Server struct {
	service    QueryService
	catalog    *semantic.Catalog
	db         *database.DB
	repo       *database.StockRepository
	answers    *cache.AnswerCache
	llmEnabled bool
	maxLimit   int
}

// NewServer creates a new API server instance
func NewServer(service QueryService, catalog *semantic.Catalog, db *database.DB, repo *database.StockRepository, answers *cache.AnswerCache, llmEnabled bool, maxLimit int) *Server {
	return &Server{
		service:    service,
		catalog:    catalog,
		db:         db,
		repo:       repo,
		answers:    answers,
		llmEnabled: llmEnabled,
		maxLimit:   maxLimit,
	}
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/query", s.handleQuery)
	mux.HandleFunc("GET /api/query/ws", s.handleQuerySocket)
	mux.HandleFunc("GET /api/suggestions", s.handleSuggestions)
	mux.HandleFunc("GET /api/examples", s.handleExamples)
	mux.HandleFunc("GET /api/fields/meanings", s.handleFieldMeanings)
	mux.HandleFunc("GET /api/fields/{name}/meaning", s.handleFieldMeaning)
	mux.HandleFunc("GET /api/stocks/{symbol}/latest", s.handleLatestRecord)

	mux.HandleFunc("GET /database/status", s.handleDatabaseStatus)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRoot)

	return s.corsMiddleware(s.loggingMiddleware(mux))
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("🚀 API Server starting on %s", serverAddr)
	return http.ListenAndServe(serverAddr, s.Handler())
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

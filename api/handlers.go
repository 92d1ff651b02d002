package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stock-ai-analyst/resolver"
)

// queryRequest is the body of POST /api/query.
type queryRequest struct {
	Question string `json:"question"`
	Limit    int    `json:"limit,omitempty"`
}

// suggestions are shown to users as starting-point questions.
var suggestions = []string{
	"What is the trend on symbol 230011 today?",
	"When was the last time symbol 230011 moved from uptrend to downtrend?",
	"Show me the trend history for symbol 230011 over the last 7 days",
	"What stocks have high volume today?",
	"Which stocks are in uptrend this week?",
	"Show me stocks with downtrend in the last month",
	"What is the current price of symbol 230011?",
	"Which stocks have the highest trading volume?",
	"Show me stock names and their current trends",
	"What stocks changed trend recently?",
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondWithError(w, http.StatusBadRequest, "question is required", nil)
		return
	}
	if req.Limit < 0 || req.Limit > s.maxLimit {
		req.Limit = 0 // resolver applies its default
	}

	ctx := r.Context()

	if s.answers != nil {
		if cached, ok := s.answers.Get(ctx, req.Question); ok {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	result := s.service.Resolve(ctx, req.Question, req.Limit)

	if s.answers != nil && result.Status == resolver.StatusSuccess {
		// cache failures never affect the response
		if err := s.answers.Set(ctx, req.Question, result); err != nil {
			log.Printf("⚠️  Failed to cache answer: %v", err)
		}
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"suggestions": suggestions,
	})
}

func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"examples": suggestions,
		"message":  "These are example questions you can ask. The system uses semantic understanding to interpret database fields and provide accurate answers.",
	})
}

func (s *Server) handleFieldMeanings(w http.ResponseWriter, r *http.Request) {
	fields := s.catalog.Fields()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "success",
		"field_meanings": fields,
		"total_fields":   len(fields),
	})
}

func (s *Server) handleFieldMeaning(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	def, ok := s.catalog.Lookup(name)
	if !ok {
		respondJSON(w, http.StatusNotFound, map[string]interface{}{
			"status":        "error",
			"field_name":    name,
			"error_message": "field not found or has no semantic meaning defined",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"field_name": name,
		"meaning":    def,
	})
}

func (s *Server) handleLatestRecord(w http.ResponseWriter, r *http.Request) {
	symbol, err := strconv.ParseInt(r.PathValue("symbol"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "symbol must be numeric", err)
		return
	}

	record, err := s.repo.LatestRecord(symbol)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to read stock record", err)
		return
	}
	if record == nil {
		respondJSON(w, http.StatusNotFound, map[string]interface{}{
			"status":        "error",
			"symbol":        symbol,
			"error_message": "no data for symbol",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"symbol": symbol,
		"record": record,
	})
}

func (s *Server) handleDatabaseStatus(w http.ResponseWriter, r *http.Request) {
	tables, err := s.db.DescribeTables(r.Context())
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	status := map[string]interface{}{
		"status": "connected",
		"tables": tables,
	}
	if s.repo != nil {
		if records, err := s.repo.RecordCount(); err == nil {
			status["record_count"] = records
		}
		if symbols, err := s.repo.SymbolCount(); err == nil {
			status["symbol_count"] = symbols
		}
	}

	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbConnected := s.db.Ping() == nil

	overall := "healthy"
	if !dbConnected || !s.llmEnabled {
		overall = "degraded"
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":             overall,
		"database_connected": dbConnected,
		"llm_available":      s.llmEnabled,
		"timestamp":          time.Now().UTC(),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Stock AI Analysis System with Semantic Understanding",
		"status":  "running",
	})
}

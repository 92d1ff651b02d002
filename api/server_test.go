package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stock-ai-analyst/resolver"
	"stock-ai-analyst/semantic"
)

type stubService struct {
	result       *resolver.Result
	lastQuestion string
	lastLimit    int
}

func (s *stubService) Resolve(_ context.Context, question string, limit int) *resolver.Result {
	s.lastQuestion = question
	s.lastLimit = limit
	return s.result
}

func newTestServer(result *resolver.Result) (*Server, *stubService) {
	svc := &stubService{result: result}
	server := NewServer(svc, semantic.NewCatalog(), nil, nil, nil, true, 1000)
	return server, svc
}

func TestHandleQuery(t *testing.T) {
	expected := &resolver.Result{
		Status:      resolver.StatusSuccess,
		Question:    "What is the trend on symbol 230011 today?",
		Intent:      "trend_current",
		Strategy:    resolver.StrategyTemplate,
		RowCount:    1,
		Explanation: "The current trend is uptrend (long position).",
	}
	server, svc := newTestServer(expected)

	body := `{"question": "What is the trend on symbol 230011 today?", "limit": 50}`
	req := httptest.NewRequest("POST", "/api/query", strings.NewReader(body))
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastQuestion != expected.Question {
		t.Errorf("service received question %q", svc.lastQuestion)
	}
	if svc.lastLimit != 50 {
		t.Errorf("service received limit %d", svc.lastLimit)
	}

	var got resolver.Result
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if got.Strategy != resolver.StrategyTemplate || got.Explanation != expected.Explanation {
		t.Errorf("unexpected response: %+v", got)
	}
}

func TestHandleQueryValidation(t *testing.T) {
	server, _ := newTestServer(&resolver.Result{Status: resolver.StatusSuccess})

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", "{question"},
		{"blank question", `{"question": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/query", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			server.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleQueryClampsLimit(t *testing.T) {
	server, svc := newTestServer(&resolver.Result{Status: resolver.StatusSuccess})

	body := `{"question": "anything", "limit": 999999}`
	req := httptest.NewRequest("POST", "/api/query", strings.NewReader(body))
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	if svc.lastLimit != 0 {
		t.Errorf("expected out-of-range limit reset to 0, got %d", svc.lastLimit)
	}
}

func TestHandleFieldMeaning(t *testing.T) {
	server, _ := newTestServer(&resolver.Result{})

	req := httptest.NewRequest("GET", "/api/fields/TheTrendD/meaning", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Daily trend indicator") {
		t.Errorf("expected field description in response, got %s", rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/fields/Bogus/meaning", nil)
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown field, got %d", rec.Code)
	}
}

func TestHandleLatestRecordRejectsNonNumericSymbol(t *testing.T) {
	server, _ := newTestServer(&resolver.Result{})

	req := httptest.NewRequest("GET", "/api/stocks/abc/latest", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric symbol, got %d", rec.Code)
	}
}

func TestHandleSuggestions(t *testing.T) {
	server, _ := newTestServer(&resolver.Result{})

	req := httptest.NewRequest("GET", "/api/suggestions", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "trend history for symbol 230011") {
		t.Errorf("expected suggestion list, got %s", rec.Body.String())
	}
}

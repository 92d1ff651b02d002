package resolver

import "stock-ai-analyst/semantic"

// Status values for a resolution result.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Strategy tags record which path produced the answer. Informational only;
// callers get the same result shape either way.
const (
	StrategyTemplate   = "template"
	StrategyGenerative = "generative"
)

// Result is the unified outcome of one question resolution, shared by both
// strategies.
type Result struct {
	Status       string         `json:"status"`
	Question     string         `json:"question"`
	Intent       string         `json:"intent,omitempty"`
	Strategy     string         `json:"strategy,omitempty"`
	Query        string         `json:"sql_query,omitempty"`
	Rows         []semantic.Row `json:"results,omitempty"`
	RowCount     int            `json:"row_count"`
	Explanation  string         `json:"explanation,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

func errorResult(question, message string) *Result {
	return &Result{
		Status:       StatusError,
		Question:     question,
		ErrorMessage: message,
	}
}
